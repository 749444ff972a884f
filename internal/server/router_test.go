package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/session"
	"go-chi-calculator/internal/testutil"

	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	if err := calculator.InitMetrics(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := NewRouter(session.NewStore(session.Options{}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterCalculatorAddSetsHeaderAndOmitsRequestIDInBody(t *testing.T) {
	router := NewRouter(session.NewStore(session.Options{}))

	w := testutil.PostJSON(t, router, "/calculator/add", `{"a":2,"b":3}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	testutil.DecodeJSONBody(t, w.Result().Body, &payload)

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}

	if got, ok := payload["result"].(string); !ok || got != "5" {
		t.Fatalf("expected result %q, got %#v", "5", payload["result"])
	}
}

func TestNewRouterSessionScenario(t *testing.T) {
	store := session.NewStore(session.Options{})
	router := NewRouter(store)

	w := testutil.PostJSON(t, router, "/calculator/sessions", "")
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var created calculator.StateResponse
	testutil.DecodeJSONBody(t, w.Body, &created)

	w = testutil.PostJSON(t, router, "/calculator/sessions/"+created.SessionID+"/intents", `{"keys":"C 5 × 6 ="}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var state calculator.StateResponse
	testutil.DecodeJSONBody(t, w.Body, &state)
	if state.Display != "30" {
		t.Fatalf("expected display %q, got %q", "30", state.Display)
	}
}

func TestNewRouterServesMetrics(t *testing.T) {
	router := NewRouter(session.NewStore(session.Options{}))

	w := testutil.Request(t, router, http.MethodGet, "/metrics", "")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatal("expected default Go collectors in /metrics output")
	}
}

func TestNewRouterUnknownRoute(t *testing.T) {
	router := NewRouter(session.NewStore(session.Options{}))

	w := testutil.Request(t, router, http.MethodGet, "/calculator/power", "")
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}
