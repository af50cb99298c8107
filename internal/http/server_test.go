package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mortgage/internal/cache"
	"mortgage/internal/form"
	applog "mortgage/internal/log"
	"mortgage/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithLogger(t, applog.Discard())
}

func newTestServerWithLogger(t *testing.T, logger *applog.Logger) *Server {
	t.Helper()
	srv, err := NewServer(Options{
		Addr:               ":0",
		Logger:             logger,
		Calculator:         services.NewCalculatorService(logger, nil),
		Sessions:           cache.NewLRUCache[*form.Controller](10, time.Hour),
		SessionTTL:         time.Hour,
		RateLimitPerMinute: 1000,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(srv.rateLimiter.Stop)
	return srv
}

func do(t *testing.T, srv *Server, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", SessionCookie)
	return nil
}

func editRequest(field, value string) *http.Request {
	body := "field=" + field + "&value=" + value
	req := httptest.NewRequest(http.MethodPost, "/calculator/edit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndexRendersDefaults(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"Mortgage Calculator",
		`id="field-principal"`,
		`value="300000"`,
		`value="3.5"`,
		`value="60000"`,
		"$1,078",
		"$240,000",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}

	c := sessionCookie(t, rr)
	if !c.HttpOnly || c.MaxAge != 3600 {
		t.Errorf("cookie = %+v", c)
	}
	if srv.sessions.Size() != 1 {
		t.Errorf("sessions = %d, want 1", srv.sessions.Size())
	}
}

func TestResultsShowDownPayment(t *testing.T) {
	srv := newTestServer(t)
	cookie := sessionCookie(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil), nil))

	rr := do(t, srv, httptest.NewRequest(http.MethodGet, "/ui/results", nil), cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("results status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Down Payment") || !strings.Contains(body, "$60,000") {
		t.Errorf("results partial missing the down payment: %s", body)
	}

	rr = do(t, srv, editRequest("down_payment", "75000"), cookie)
	if !strings.Contains(rr.Body.String(), "$75,000") || !strings.Contains(rr.Body.String(), "$225,000") {
		t.Errorf("edited down payment not shown: %s", rr.Body.String())
	}
}

func TestEditAcceptedAndRejected(t *testing.T) {
	srv := newTestServer(t)
	cookie := sessionCookie(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil), nil))

	rr := do(t, srv, editRequest("property_tax", "300"), cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("accepted edit status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), EventPaymentRecomputed) {
		t.Errorf("HX-Trigger = %q", rr.Header().Get("HX-Trigger"))
	}
	if !strings.Contains(rr.Body.String(), `id="results"`) || !strings.Contains(rr.Body.String(), "$1,378") {
		t.Errorf("results partial not rendered: %s", rr.Body.String())
	}

	for _, raw := range []string{"", "abc", "%24"} {
		rr = do(t, srv, editRequest("property_tax", raw), cookie)
		if rr.Code != http.StatusNoContent {
			t.Errorf("edit %q status=%d, want 204", raw, rr.Code)
		}
		if rr.Body.Len() != 0 || rr.Header().Get("HX-Trigger") != "" {
			t.Errorf("edit %q should not swap or trigger", raw)
		}
	}

	rr = do(t, srv, httptest.NewRequest(http.MethodGet, "/ui/results", nil), cookie)
	if !strings.Contains(rr.Body.String(), `data-revision="1"`) || !strings.Contains(rr.Body.String(), "$1,378") {
		t.Errorf("state changed by rejected edits: %s", rr.Body.String())
	}
}

func TestEditCurrencyText(t *testing.T) {
	srv := newTestServer(t)
	cookie := sessionCookie(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil), nil))

	rr := do(t, srv, editRequest("down_payment", "%24100%2C000"), cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "$200,000") {
		t.Errorf("financed amount not updated: %s", rr.Body.String())
	}
}

func TestEditUnknownField(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, editRequest("color", "1"), nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestEditWithoutCookieStartsSession(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, editRequest("principal", "400000"), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	sessionCookie(t, rr)
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	a := sessionCookie(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	b := sessionCookie(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	if a.Value == b.Value {
		t.Fatal("sessions share an id")
	}

	do(t, srv, editRequest("principal", "1000000"), a)

	rr := do(t, srv, httptest.NewRequest(http.MethodGet, "/ui/results", nil), b)
	if !strings.Contains(rr.Body.String(), `data-revision="0"`) {
		t.Errorf("edit leaked into another session: %s", rr.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, httptest.NewRequest(http.MethodGet, "/calculator/edit", nil), nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestAPICalculate(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := do(t, srv, req, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var got calculateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := calculateResponse{
		FinancedAmount:    "240000.00",
		MonthlyPayment:    "1077.71",
		TotalPayment:      "387974.61",
		TotalInterest:     "147974.61",
		MonthlyWithExtras: "1077.71",
	}
	got.Params = want.Params
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRouteLogsCarryComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{
		Component: applog.ComponentApp,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	srv := newTestServerWithLogger(t, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(`{"principal": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	if rr := do(t, srv, req, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}

	var line string
	for _, l := range strings.Split(buf.String(), "\n") {
		if strings.Contains(l, "Invalid calculate request") {
			line = l
		}
	}
	if line == "" {
		t.Fatalf("no API log line in:\n%s", buf.String())
	}
	if !strings.Contains(line, "component="+applog.ComponentAPI) {
		t.Errorf("API log line not tagged: %s", line)
	}
	if strings.Count(line, "component=") != 1 {
		t.Errorf("component repeated: %s", line)
	}
}

func TestAPICalculateZeroRate(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(`{"annual_rate_percent": 0, "monthly_insurance": 50}`))
	rr := do(t, srv, req, nil)

	var got calculateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.MonthlyPayment != "0.00" || got.MonthlyWithExtras != "0.00" {
		t.Errorf("zero rate should coerce to zero, got %+v", got)
	}
}

func TestAPICalculateMalformed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(`{"principal": "lots"}`))
	rr := do(t, srv, req, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHealthReadyMetrics(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, httptest.NewRequest(http.MethodGet, path, nil), nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	do(t, srv, editRequest("principal", "abc"), nil)
	rr := do(t, srv, httptest.NewRequest(http.MethodGet, "/metrics", nil), nil)
	for _, want := range []string{
		"calculator_edits_rejected_total 1",
		"calculator_sessions_active 1",
		"# TYPE http_requests_total counter",
	} {
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("metrics missing %q:\n%s", want, rr.Body.String())
		}
	}
}

func TestStaticAndSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, httptest.NewRequest(http.MethodGet, "/static/app.css", nil), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("static status=%d", rr.Code)
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Error("static assets should be cacheable")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("request id missing")
	}
}

func TestRateLimitOnPost(t *testing.T) {
	logger := applog.Discard()
	srv, err := NewServer(Options{
		Logger:             logger,
		Calculator:         services.NewCalculatorService(logger, nil),
		Sessions:           cache.NewLRUCache[*form.Controller](10, time.Hour),
		SessionTTL:         time.Hour,
		RateLimitPerMinute: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(srv.rateLimiter.Stop)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, srv, editRequest("principal", "1"), nil).Code)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want third to be 429", codes)
	}

	if rr := do(t, srv, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil); rr.Code != http.StatusOK {
		t.Errorf("GET should not be limited, got %d", rr.Code)
	}
}
