package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/dvhl/club-portal/internal/domain/user"
	"github.com/dvhl/club-portal/internal/infrastructure/repository/memory"
	idgen "github.com/dvhl/club-portal/internal/platform/id"
	"github.com/dvhl/club-portal/internal/usecase"
)

const testSeason = memory.SeasonIDWinter2026

// tokenVerifier maps bearer tokens to principals for router-level tests.
type tokenVerifier map[string]user.Principal

func (v tokenVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	planRepo := memory.NewPlanRepository()
	signupRepo := memory.NewSignupRepository()
	draftRepo := memory.NewDraftRepository()
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	gameRepo := memory.NewGameRepository()
	subRepo := memory.NewSubRequestRepository()
	rosterRepo := memory.NewRosterRepository(memory.SeedRosterControls())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	ids := idgen.NewRandomGenerator()

	handler := NewHandler(
		usecase.NewSeasonPlanService(planRepo, logger),
		usecase.NewSignupService(planRepo, signupRepo, logger),
		usecase.NewDraftService(draftRepo, planRepo, playerRepo, rosterRepo, usecase.NopNotifier{}, logger),
		usecase.NewSubRequestService(subRepo, ids, usecase.NopNotifier{}, logger),
		usecase.NewScheduleService(teamRepo, gameRepo, ids, usecase.NopNotifier{}, logger),
		usecase.NewStandingsService(teamRepo, gameRepo),
		rosterRepo,
		playerRepo,
		nil,
	)

	verifier := tokenVerifier{
		"ops-token":     {UserID: "ops-1", Role: user.RoleOperator, Approved: true},
		"captain-token": {UserID: "p-adler", Role: user.RoleCaptain, Approved: true},
		"player-token":  {UserID: "p-frost", Role: user.RolePlayer, Approved: true},
	}
	return NewRouter(handler, verifier, logger, []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	data, _ := body["data"].(map[string]any)
	return data
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SeasonPlanFlow(t *testing.T) {
	router := newTestRouter(t)
	planPath := "/v1/seasons/" + testSeason + "/plan"

	rec := doJSON(t, router, http.MethodGet, planPath, "player-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, dataField(t, rec), "no plan saved yet")

	rec = doJSON(t, router, http.MethodPut, planPath, "player-token", `{"captain_count":6}`)
	require.Equal(t, http.StatusForbidden, rec.Code, "plan writes are operator-only")

	rec = doJSON(t, router, http.MethodPut, planPath, "ops-token", `{"captain_count":6,"draft_mode":"snake","rounds":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataField(t, rec)
	require.EqualValues(t, 6, data["captain_count"])
	require.Equal(t, "snake", data["draft_mode"])

	rec = doJSON(t, router, http.MethodPut, planPath, "ops-token", `{"captain_count":6,"bogus":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	rec = doJSON(t, router, http.MethodGet, "/v1/seasons/"+testSeason+"/phase", "player-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "signup_open", dataField(t, rec)["phase"])
}

func TestRouter_SignupUpsert(t *testing.T) {
	router := newTestRouter(t)
	signupPath := "/v1/seasons/" + testSeason + "/signups"

	rec := doJSON(t, router, http.MethodPut, signupPath, "player-token", `{"wants_captain":true,"note":"most weeks"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataField(t, rec)
	require.Equal(t, "p-frost", data["player_id"], "signup is recorded for the caller, not a body field")
	require.Equal(t, true, data["wants_captain"])

	rec = doJSON(t, router, http.MethodGet, signupPath, "captain-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_DraftFlow(t *testing.T) {
	router := newTestRouter(t)
	draftPath := "/v1/seasons/" + testSeason + "/draft"
	startBody := `{"team_ids":["team-gold","team-black","team-white","team-red"],"pool_ids":["p-egan","p-frost","p-gray","p-hale"],"draft_mode":"manual","rounds":1}`

	rec := doJSON(t, router, http.MethodPost, draftPath, "captain-token", startBody)
	require.Equal(t, http.StatusForbidden, rec.Code, "draft start is operator-only")

	rec = doJSON(t, router, http.MethodPost, draftPath, "ops-token", startBody)
	require.Equal(t, http.StatusOK, rec.Code)
	started := dataField(t, rec)
	require.Equal(t, "team-gold", started["next_team_id"])

	// Pool entries are rendered with their directory details.
	pool, _ := started["pool"].([]any)
	require.Len(t, pool, 4)
	first, _ := pool[0].(map[string]any)
	require.Equal(t, "p-egan", first["player_id"])
	require.Equal(t, "Lee Egan", first["name"])
	require.EqualValues(t, 9, first["jersey_number"])
	require.Equal(t, "C", first["level"])

	// p-adler captains team-gold, so the captain token may pick for it.
	rec = doJSON(t, router, http.MethodPost, draftPath+"/picks", "captain-token", `{"team_id":"team-gold","player_id":"p-egan"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	pick := dataField(t, rec)
	require.EqualValues(t, 1, pick["number"])
	require.Equal(t, "Lee Egan", pick["player_name"], "picks carry the directory entry")
	require.Equal(t, "C", pick["level"])

	// p-frost is not team-black's captain.
	rec = doJSON(t, router, http.MethodPost, draftPath+"/picks", "player-token", `{"team_id":"team-black","player_id":"p-gray"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Operator may pick on any team's behalf, but turn order still applies.
	rec = doJSON(t, router, http.MethodPost, draftPath+"/picks", "ops-token", `{"team_id":"team-red","player_id":"p-gray"}`)
	require.Equal(t, http.StatusConflict, rec.Code, "out-of-turn pick")

	rec = doJSON(t, router, http.MethodPost, draftPath+"/close", "ops-token", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, draftPath+"/picks", "ops-token", `{"team_id":"team-black","player_id":"p-gray"}`)
	require.Equal(t, http.StatusConflict, rec.Code, "closed draft refuses picks")
}

func TestRouter_DraftPoolsAllEligible(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/v1/seasons/"+testSeason+"/plan", "ops-token", `{"pool_strategy":"all_eligible"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	startBody := `{"team_ids":["team-gold","team-black","team-white","team-red"],"draft_mode":"snake","rounds":2}`
	rec = doJSON(t, router, http.MethodPost, "/v1/seasons/"+testSeason+"/draft", "ops-token", startBody)
	require.Equal(t, http.StatusOK, rec.Code)

	pool, _ := dataField(t, rec)["pool"].([]any)
	require.Len(t, pool, 8, "omitted pool draws the whole directory")
	first, _ := pool[0].(map[string]any)
	require.Equal(t, "p-adler", first["player_id"])
	require.Equal(t, "Sam Adler", first["name"])
	require.Equal(t, "A", first["level"])
}

func TestRouter_SubRequestFlow(t *testing.T) {
	router := newTestRouter(t)
	subPath := "/v1/seasons/" + testSeason + "/sub-requests"

	// p-frost is not a captain of team-gold.
	rec := doJSON(t, router, http.MethodPost, subPath, "player-token", `{"team_id":"team-gold","message":"need a sub"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, subPath, "captain-token", `{"team_id":"team-gold","message":"need a sub"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	requestID, _ := dataField(t, rec)["id"].(string)
	require.NotEmpty(t, requestID)
	require.Equal(t, "p-adler", dataField(t, rec)["captain_id"], "captain comes from roster control")

	// p-frost is in team-gold's sub pool and may accept.
	rec = doJSON(t, router, http.MethodPost, "/v1/sub-requests/"+requestID+"/accept", "player-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "accepted", dataField(t, rec)["status"])

	rec = doJSON(t, router, http.MethodPost, "/v1/sub-requests/"+requestID+"/cancel", "captain-token", "")
	require.Equal(t, http.StatusConflict, rec.Code, "accepted is terminal")
}

func TestRouter_ScheduleAndStandings(t *testing.T) {
	router := newTestRouter(t)
	base := "/v1/seasons/" + testSeason

	rec := doJSON(t, router, http.MethodPost, base+"/schedule/round-robin", "captain-token",
		`{"team_ids":["team-gold","team-black","team-white","team-red"],"cycle_count":1}`)
	require.Equal(t, http.StatusForbidden, rec.Code, "schedule writes are operator-only")

	rec = doJSON(t, router, http.MethodPost, base+"/schedule/round-robin", "ops-token",
		`{"team_ids":["team-gold","team-black","team-white","team-red"],"cycle_count":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, base+"/schedule", "player-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listBody struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &listBody))
	require.Len(t, listBody.Data, 6)

	gameID, _ := listBody.Data[0]["id"].(string)
	require.NotEmpty(t, gameID)

	rec = doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/result", "ops-token", `{"home_score":4,"away_score":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, base+"/standings", "player-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var standingsBody struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &standingsBody))
	require.Len(t, standingsBody.Data, 4)
	require.Equal(t, "team-gold", standingsBody.Data[0]["team_id"])
	require.EqualValues(t, 2, standingsBody.Data[0]["points"])
}

func TestRouter_RejectsMissingToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/seasons/"+testSeason+"/plan", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
