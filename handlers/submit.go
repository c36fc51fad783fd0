package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kova98/articleanalyzer.api/metrics"
	"github.com/kova98/articleanalyzer.api/models"
)

const maxSubmitBodyBytes = 1 << 20

// Dispatcher hands a payload off for delivery without waiting for it.
type Dispatcher interface {
	Dispatch(payload models.ForwardPayload)
}

type SubmitHandler struct {
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	newID      func() (uuid.UUID, error)
}

func NewSubmitHandler(dispatcher Dispatcher, m *metrics.Metrics) *SubmitHandler {
	return &SubmitHandler{
		dispatcher: dispatcher,
		metrics:    m,
		newID:      uuid.NewRandom,
	}
}

// decodeSingleJSON rejects bodies carrying anything after the first value.
func decodeSingleJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) Result {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBodyBytes)

	var req models.SubmissionRequest
	if err := decodeSingleJSON(r.Body, &req); err != nil {
		slog.Debug("invalid submit body", "error", err)
		h.metrics.SubmissionRejected()
		return Unprocessable("Invalid request body")
	}

	req.Email = strings.TrimSpace(req.Email)
	req.ArticleURL = strings.TrimSpace(req.ArticleURL)

	fields, err := validateRequest(req)
	if err != nil {
		return InternalError(err, "validate submission: ")
	}
	if len(fields) > 0 {
		h.metrics.SubmissionRejected()
		return Unprocessable(summarize(fields), fields...)
	}

	id, err := h.newID()
	if err != nil {
		return InternalError(err, "generate session id: ")
	}
	sessionID := id.String()

	h.dispatcher.Dispatch(models.ForwardPayload{
		Email:      normalizeEmail(req.Email),
		ArticleURL: normalizeURL(req.ArticleURL),
		SessionID:  sessionID,
	})
	h.metrics.SubmissionAccepted()
	slog.Info("submission accepted", "session_id", sessionID)

	// Forwarded reports that delivery was scheduled, not that it succeeded.
	return Ok(models.SubmissionResponse{
		Success:   true,
		SessionID: sessionID,
		Forwarded: true,
	})
}
