package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"casa/internal/core"
)

type sample struct {
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		optional bool
		wantErr  bool
		want     sample
	}{
		{name: "valid", body: `{"name":"x","amount":"12,345"}`, want: sample{Name: "x", Amount: core.Cents(1235)}},
		{name: "empty optional", body: "  ", optional: true},
		{name: "empty required", body: "", wantErr: true},
		{name: "unknown field", body: `{"nme":"x"}`, wantErr: true},
		{name: "trailing document", body: `{"name":"x"}{"name":"y"}`, wantErr: true},
		{name: "bad amount", body: `{"amount":"abc"}`, wantErr: true},
		{name: "not an object", body: `[1,2]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			got, err := DecodeJSON[sample](httptest.NewRecorder(), req, tt.optional)
			if tt.wantErr {
				if !errors.Is(err, errBadRequest) {
					t.Fatalf("err = %v, want errBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadBodyTooLarge(t *testing.T) {
	body := strings.Repeat("a", maxBodyBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if _, err := ReadBody(httptest.NewRecorder(), req); !errors.Is(err, errBadRequest) {
		t.Fatalf("err = %v, want errBadRequest", err)
	}
}

func TestPathKindAndID(t *testing.T) {
	mux := http.NewServeMux()
	var (
		kind    core.Kind
		kindErr error
		id      string
	)
	mux.HandleFunc("GET /api/{kind}/{id}", func(w http.ResponseWriter, r *http.Request) {
		kind, kindErr = PathKind(r)
		id, _ = PathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/Policies/pol%091", nil))
	if kindErr != nil || kind != core.KindInsurancePolicy {
		t.Errorf("kind = %q, err = %v", kind, kindErr)
	}
	if id != "pol\t1" {
		t.Errorf("id = %q", id)
	}

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/widgets/1", nil))
	if !errors.Is(kindErr, errBadRequest) {
		t.Errorf("unknown kind err = %v", kindErr)
	}
}

func TestScopeParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks?propertyId=%20p1%00", nil)
	if got := ScopeParam(req); got != "p1" {
		t.Errorf("ScopeParam = %q, want p1", got)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"tab\there", "tab\there"},
		{"line\nbreak", "line\nbreak"},
		{"null\x00char", "nullchar"},
		{"bell\x07", "bell"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanIDs(t *testing.T) {
	got := cleanIDs([]string{" h1 ", "", "\x00", "h2"})
	if len(got) != 2 || got[0] != "h1" || got[1] != "h2" {
		t.Errorf("cleanIDs = %q", got)
	}
}
