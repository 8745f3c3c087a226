package notify

import "context"

// Kind identifies what a notification request is about. Delivery (email, push)
// is owned by the club notifier service; the engine only emits requests.
type Kind string

const (
	KindDraftPickSaved      Kind = "draft_pick_saved"
	KindScheduleSaved       Kind = "schedule_saved"
	KindSubRequestCreated   Kind = "sub_request_created"
	KindSubRequestAccepted  Kind = "sub_request_accepted"
	KindSubRequestCancelled Kind = "sub_request_cancelled"
)

// Request asks the notifier to tell somebody something. SubjectID points at
// the entity the notification is about (pick player, sub request id, ...).
type Request struct {
	Kind      Kind
	SeasonID  string
	TeamID    string
	ActorID   string
	SubjectID string
	Message   string
}

// Publisher is the outbound notification port.
type Publisher interface {
	Publish(ctx context.Context, req Request) error
}
