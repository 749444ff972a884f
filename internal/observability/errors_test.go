package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-chi-calculator/internal/testutil"
)

func TestRecordError(t *testing.T) {
	tests := []struct {
		name      string
		opName    string
		msg       string
		err       error
		status    int
		wantLevel zapcore.Level
	}{
		{
			name:      "malformed body",
			opName:    "evaluate",
			msg:       "invalid request body",
			err:       errors.New("unexpected EOF"),
			status:    http.StatusBadRequest,
			wantLevel: zap.WarnLevel,
		},
		{
			name:      "session limit",
			opName:    "session.create",
			msg:       "session limit reached",
			err:       errors.New("session limit reached"),
			status:    http.StatusServiceUnavailable,
			wantLevel: zap.ErrorLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

			ctx := ContextWithRequestID(context.Background(), "req-1")
			ctx, span := tp.Tracer("test").Start(ctx, "calculator."+tc.opName)

			counter, err := noop.NewMeterProvider().Meter("test").Int64Counter("calculator.errors.total")
			if err != nil {
				t.Fatalf("creating counter: %v", err)
			}

			core, logs := observer.New(zap.DebugLevel)
			w := httptest.NewRecorder()

			RecordError(ctx, span, zap.New(core), counter, tc.opName, tc.msg, tc.err, tc.status, w)
			span.End()

			testutil.CheckResponseCode(t, tc.status, w.Code)
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected Content-Type application/json, got %q", ct)
			}

			var body map[string]string
			testutil.DecodeJSONBody(t, w.Body, &body)
			if got := body["error"]; got != tc.msg {
				t.Fatalf("expected error %q, got %q", tc.msg, got)
			}
			if _, ok := body["request_id"]; ok {
				t.Fatal("did not expect request_id field in JSON body")
			}

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			if entries[0].Level != tc.wantLevel {
				t.Fatalf("expected level %s, got %s", tc.wantLevel, entries[0].Level)
			}
			fields := entries[0].ContextMap()
			if fields["request_id"] != "req-1" || fields["operation"] != tc.opName {
				t.Fatalf("unexpected log fields: %#v", fields)
			}

			ended := recorder.Ended()
			if len(ended) != 1 {
				t.Fatalf("expected 1 ended span, got %d", len(ended))
			}
			if status := ended[0].Status(); status.Code != codes.Error || status.Description != tc.msg {
				t.Fatalf("unexpected span status: %+v", status)
			}
			if len(ended[0].Events()) == 0 {
				t.Fatal("expected the error to be recorded as a span event")
			}
		})
	}
}
