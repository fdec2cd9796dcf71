package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

func TestParseObject(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKeys int
		wantErr  error
	}{
		{"empty body", "", 0, nil},
		{"whitespace body", "  \n", 0, nil},
		{"object", `{"name":"Main","type":"checking"}`, 2, nil},
		{"array", `[1,2]`, 0, errInvalidBody},
		{"null", `null`, 0, errInvalidBody},
		{"malformed", `{"name":`, 0, errInvalidBody},
		{"too big", `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`, 0, errBodyTooBig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			body, err := parseObject(httptest.NewRecorder(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseObject() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && len(body) != tt.wantKeys {
				t.Errorf("parseObject() keys = %d, want %d", len(body), tt.wantKeys)
			}
		})
	}
}

func TestParseInto(t *testing.T) {
	var c credentials
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","password":"p"}`))
	if err := parseInto(httptest.NewRecorder(), req, &c); err != nil {
		t.Fatalf("parseInto() error = %v", err)
	}
	if c.Email != "a@x.com" || c.Password != "p" {
		t.Errorf("parseInto() = %+v", c)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":42}`))
	if err := parseInto(httptest.NewRecorder(), req, &c); !errors.Is(err, errInvalidBody) {
		t.Errorf("parseInto() type mismatch error = %v", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		id      string
		want    int64
		wantErr error
	}{
		{"7", 7, nil},
		{"", 0, errMissingID},
		{"abc", 0, errInvalidID},
		{"0", 0, errInvalidID},
		{"-3", 0, errInvalidID},
		{"1.5", 0, errInvalidID},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = mux.SetURLVars(req, map[string]string{"id": tt.id})
		got, err := parseID(req)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v; want %d, %v", tt.id, got, err, tt.want, tt.wantErr)
		}
	}
}
