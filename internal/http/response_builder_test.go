package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		BodyHTML([]byte("<p>ok</p>")).
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "<p>ok</p>" {
		t.Errorf("Body = %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger should be absent without triggers")
	}
}

func TestHTMXResponseBuilder_TriggerPaymentRecomputed(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerPaymentRecomputed(4, "$1,078").
		Write(w)

	var got map[string]struct {
		Revision          uint64 `json:"revision"`
		MonthlyWithExtras string `json:"monthly_with_extras"`
	}
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &got); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	ev, ok := got[EventPaymentRecomputed]
	if !ok {
		t.Fatalf("missing %s trigger: %v", EventPaymentRecomputed, got)
	}
	if ev.Revision != 4 || ev.MonthlyWithExtras != "$1,078" {
		t.Errorf("trigger payload = %+v", ev)
	}
}

func TestHTMXResponseBuilder_CustomHeader(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Header("X-Custom", "value").
		Write(w)

	if w.Header().Get("X-Custom") != "value" {
		t.Errorf("X-Custom = %q, want %q", w.Header().Get("X-Custom"), "value")
	}
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent().BodyHTML([]byte("ignored")).Write(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("Status code = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("204 must not carry a body, got %q", w.Body.String())
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		builder *HTMXResponseBuilder
		code    int
	}{
		{"bad request", BadRequestError("nope"), http.StatusBadRequest},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.code {
				t.Errorf("Status code = %d, want %d", w.Code, tt.code)
			}
		})
	}
}

func TestErrorResponse_EscapesHTML(t *testing.T) {
	w := httptest.NewRecorder()

	BadRequestError(`<script>alert("x")</script>`).Write(w)

	want := `<div class="error">&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</div>`
	if w.Body.String() != want {
		t.Errorf("Body = %q, want %q", w.Body.String(), want)
	}
}
