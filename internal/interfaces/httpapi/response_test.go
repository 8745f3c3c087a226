package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/dvhl/club-portal/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_StatusTaxonomy(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"team not in draft", usecase.ErrInvalidPickTeam, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"player not in pool", usecase.ErrPlayerNotInPool, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unmapped semifinal team", usecase.ErrUnmappedSemifinalTeam, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"draft not found", usecase.ErrDraftNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"sub request not found", usecase.ErrSubRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED"},
		{"draft exists", usecase.ErrDraftExists, http.StatusConflict, "FAILED_PRECONDITION"},
		{"draft not open", usecase.ErrDraftNotOpen, http.StatusConflict, "FAILED_PRECONDITION"},
		{"player already picked", usecase.ErrPlayerAlreadyPicked, http.StatusConflict, "FAILED_PRECONDITION"},
		{"not team turn", usecase.ErrNotTeamTurn, http.StatusConflict, "FAILED_PRECONDITION"},
		{"version conflict", usecase.ErrVersionConflict, http.StatusConflict, "FAILED_PRECONDITION"},
		{"sub request not open", usecase.ErrSubRequestNotOpen, http.StatusConflict, "FAILED_PRECONDITION"},
		{"semifinals not ready", usecase.ErrSemifinalsNotReady, http.StatusConflict, "FAILED_PRECONDITION"},
		{"semifinal tied", usecase.ErrSemifinalTied, http.StatusConflict, "FAILED_PRECONDITION"},
		{"dependency unavailable", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(context.Background(), fmt.Errorf("wrapped: %w", tc.err))
			if mapped.HTTPStatus != tc.wantCode {
				t.Fatalf("expected HTTP %d, got %d", tc.wantCode, mapped.HTTPStatus)
			}
			if mapped.Status != tc.wantStatus {
				t.Fatalf("expected status %s, got %s", tc.wantStatus, mapped.Status)
			}
		})
	}
}
