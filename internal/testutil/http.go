// Package testutil holds HTTP helpers shared by handler tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// Request sends method to path with an optional JSON body.
func Request(t testing.TB, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return ExecuteRequest(req, handler)
}

// PostJSON sends body to path as a JSON POST.
func PostJSON(t testing.TB, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return Request(t, handler, http.MethodPost, path, body)
}

func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

// DecodeJSONBody decodes body into dst, failing the test on malformed JSON or
// trailing data.
func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
	if dec.More() {
		t.Fatal("unexpected data after JSON response")
	}
}
