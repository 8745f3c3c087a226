package usecase

import "time"

// testTime is a fixed mid-season instant so window checks are deterministic.
func testTime() time.Time {
	return time.Date(2026, time.January, 10, 19, 0, 0, 0, time.UTC)
}
