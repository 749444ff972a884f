package calculator

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/accumulator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

// SessionHandler serves the stateful calculator: one accumulator per session,
// driven intent by intent.
type SessionHandler struct {
	sessions *session.Store
}

func NewSessionHandler(sessions *session.Store) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create handles POST /calculator/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create")
	defer span.End()

	sess, err := h.sessions.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.create", err.Error(), err, sessionErrorStatus(err), w)
		return
	}

	sessionsCounter.Add(ctx, 1)
	span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.Int("active_sessions", h.sessions.Len()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.Header().Set("Location", "/calculator/sessions/"+sess.ID)
	handlers.WriteJSON(w, http.StatusCreated, NewStateResponse(sess.ID, sess.State()))
}

// Get handles GET /calculator/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.get",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	sess, err := h.sessions.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.get", err.Error(), err, sessionErrorStatus(err), w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, NewStateResponse(sess.ID, sess.State()))
}

// ApplyIntents handles POST /calculator/sessions/{id}/intents. It applies the
// intents in order to the session's accumulator and answers with the final
// state.
func (h *SessionHandler) ApplyIntents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.intents",
		trace.WithAttributes(
			attribute.String("calculator.session.id", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req IntentsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.intents", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	intents, err := req.Resolve()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.intents", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	start := time.Now()
	state, err := h.sessions.Do(id, func(acc *accumulator.Accumulator) {
		dispatchAll(ctx, acc, intents)
	})
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.intents", err.Error(), err, sessionErrorStatus(err), w)
		return
	}
	elapsed := elapsedMillis(start)

	opsHistogram.Record(ctx, elapsed, metric.WithAttributes(attribute.String("operation", "session.intents")))
	recordResult(ctx, accumulator.ParseDisplay(state.Display), "session.intents")

	span.SetAttributes(
		attribute.Int("calculator.intents_count", len(intents)),
		attribute.String("calculator.display", state.Display),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator intents applied",
		zap.String("session_id", id),
		zap.Int("intents", len(intents)),
		zap.String("display", state.Display),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, NewStateResponse(id, state))
}

// Delete handles DELETE /calculator/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	if err := h.sessions.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.delete", err.Error(), err, sessionErrorStatus(err), w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrCapacity):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
