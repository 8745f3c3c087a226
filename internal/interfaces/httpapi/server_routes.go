package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedSeasonRoutes(mux, handler, verifier)
	registerAuthorizedDraftRoutes(mux, handler, verifier)
	registerAuthorizedSubRequestRoutes(mux, handler, verifier)
	registerAuthorizedScheduleRoutes(mux, handler, verifier)
}

func registerAuthorizedSeasonRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/seasons/{seasonID}/plan", RequireAuth(verifier, http.HandlerFunc(handler.GetSeasonPlan)))
	mux.Handle("PUT /v1/seasons/{seasonID}/plan", RequireAuth(verifier, http.HandlerFunc(handler.UpsertSeasonPlan)))
	mux.Handle("GET /v1/seasons/{seasonID}/phase", RequireAuth(verifier, http.HandlerFunc(handler.GetSeasonPhase)))
	mux.Handle("GET /v1/seasons/{seasonID}/signups", RequireAuth(verifier, http.HandlerFunc(handler.ListSignups)))
	mux.Handle("PUT /v1/seasons/{seasonID}/signups", RequireAuth(verifier, http.HandlerFunc(handler.UpsertSignup)))
	mux.Handle("GET /v1/seasons/{seasonID}/standings", RequireAuth(verifier, http.HandlerFunc(handler.ListStandings)))
}

func registerAuthorizedDraftRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/seasons/{seasonID}/draft", RequireAuth(verifier, http.HandlerFunc(handler.GetDraft)))
	mux.Handle("POST /v1/seasons/{seasonID}/draft", RequireAuth(verifier, http.HandlerFunc(handler.StartDraft)))
	mux.Handle("POST /v1/seasons/{seasonID}/draft/reset", RequireAuth(verifier, http.HandlerFunc(handler.ResetDraft)))
	mux.Handle("POST /v1/seasons/{seasonID}/draft/close", RequireAuth(verifier, http.HandlerFunc(handler.CloseDraft)))
	mux.Handle("POST /v1/seasons/{seasonID}/draft/picks", RequireAuth(verifier, http.HandlerFunc(handler.MakeDraftPick)))
}

func registerAuthorizedSubRequestRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/seasons/{seasonID}/sub-requests", RequireAuth(verifier, http.HandlerFunc(handler.ListSubRequests)))
	mux.Handle("POST /v1/seasons/{seasonID}/sub-requests", RequireAuth(verifier, http.HandlerFunc(handler.CreateSubRequest)))
	mux.Handle("POST /v1/sub-requests/{requestID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptSubRequest)))
	mux.Handle("POST /v1/sub-requests/{requestID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelSubRequest)))
}

func registerAuthorizedScheduleRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/seasons/{seasonID}/schedule", RequireAuth(verifier, http.HandlerFunc(handler.ListSchedule)))
	mux.Handle("POST /v1/seasons/{seasonID}/schedule/round-robin", RequireAuth(verifier, http.HandlerFunc(handler.GenerateRoundRobin)))
	mux.Handle("POST /v1/seasons/{seasonID}/schedule/manual", RequireAuth(verifier, http.HandlerFunc(handler.SaveManualSchedule)))
	mux.Handle("POST /v1/seasons/{seasonID}/schedule/playoffs", RequireAuth(verifier, http.HandlerFunc(handler.SetupPlayoffs)))
	mux.Handle("POST /v1/seasons/{seasonID}/schedule/playoffs/resolve", RequireAuth(verifier, http.HandlerFunc(handler.ResolvePlayoffs)))
	mux.Handle("POST /v1/games/{gameID}/result", RequireAuth(verifier, http.HandlerFunc(handler.RecordGameResult)))
}
