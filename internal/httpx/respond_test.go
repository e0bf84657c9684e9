package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSON(rr, http.StatusCreated, map[string]string{
		"short_code": "docs",
		"message":    "URL shortened successfully",
	})

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var got map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if got["short_code"] != "docs" {
		t.Errorf("short_code = %q, want docs", got["short_code"])
	}
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSON(rr, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if ct := rr.Header().Get("Content-Type"); ct == "application/json" {
		t.Error("Content-Type = application/json for a failed encode")
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		code        string
		message     string
		details     any
		wantDetails string
	}{
		{
			name:    "no details",
			status:  http.StatusNotFound,
			code:    "not_found",
			message: "Short URL not found",
		},
		{
			name:        "with details",
			status:      http.StatusConflict,
			code:        "conflict",
			message:     "Custom alias already taken",
			details:     map[string]string{"hint": "pick another alias"},
			wantDetails: `{"hint":"pick another alias"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			WriteError(rr, tt.status, tt.code, tt.message, tt.details)

			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
			if cc := rr.Header().Get("Cache-Control"); cc != "no-store" {
				t.Errorf("Cache-Control = %q, want no-store", cc)
			}

			var raw map[string]json.RawMessage
			if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Error != tt.code {
				t.Errorf("error = %q, want %q", resp.Error, tt.code)
			}
			if resp.Message != tt.message {
				t.Errorf("message = %q, want %q", resp.Message, tt.message)
			}

			details, ok := raw["details"]
			switch {
			case tt.wantDetails == "" && ok:
				t.Errorf("details present (%s), want omitted", details)
			case tt.wantDetails != "" && string(details) != tt.wantDetails:
				t.Errorf("details = %s, want %s", details, tt.wantDetails)
			}
		})
	}
}
