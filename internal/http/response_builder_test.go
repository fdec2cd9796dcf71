package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finances/internal/core"
)

func TestJSONResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	err := NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "yes").
		Body(map[string]int{"id": 3}).
		Write(rr)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if rr.Header().Get("X-Test") != "yes" {
		t.Error("custom header missing")
	}
	var body map[string]int
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["id"] != 3 {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestJSONResponseBuilder_NoContent(t *testing.T) {
	rr := httptest.NewRecorder()
	_ = NewJSONResponse().Status(http.StatusNoContent).Body("ignored").Write(rr)
	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Errorf("got %d with body %q", rr.Code, rr.Body.String())
	}
}

func TestJSONResponseBuilder_UnencodableBody(t *testing.T) {
	rr := httptest.NewRecorder()
	if err := NewJSONResponse().Body(make(chan int)).Write(rr); err == nil {
		t.Fatal("expected marshal error")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		builder *JSONResponseBuilder
		status  int
	}{
		{BadRequestError("bad"), http.StatusBadRequest},
		{UnauthorizedError("who"), http.StatusUnauthorized},
		{NotFoundError("gone"), http.StatusNotFound},
		{ConflictError("dup"), http.StatusConflict},
		{MethodNotAllowedError(), http.StatusMethodNotAllowed},
		{InternalServerError("oops"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		_ = tt.builder.Write(rr)
		if rr.Code != tt.status {
			t.Errorf("status = %d, want %d", rr.Code, tt.status)
		}
		var body ErrorBody
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body.Error == "" {
			t.Errorf("error body = %q", rr.Body.String())
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{core.NewValidationError("name", "is required"), http.StatusBadRequest},
		{fmt.Errorf("create: %w", &core.ReferenceError{Field: "yearId", ID: 9}), http.StatusBadRequest},
		{fmt.Errorf("update: %w", core.ErrNothingToUpdate), http.StatusBadRequest},
		{errInvalidID, http.StatusBadRequest},
		{errBodyTooBig, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("%w: expired", core.ErrUnauthenticated), http.StatusUnauthorized},
		{core.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("get accounts: %w", core.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("insert user: %w", core.ErrConflict), http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, msg := statusFor(tt.err)
		if status != tt.status {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, status, tt.status)
		}
		if msg == "" {
			t.Errorf("statusFor(%v) returned empty message", tt.err)
		}
	}

	if _, msg := statusFor(errors.New("disk on fire")); msg != "internal server error" {
		t.Errorf("internal error leaked: %q", msg)
	}
}
