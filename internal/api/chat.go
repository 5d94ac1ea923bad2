package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "banking-chatbot/internal/common/errors"
	"banking-chatbot/internal/common/validation"
)

const (
	msgNoData    = "No data provided"
	msgNoMessage = "No message provided"
)

// chatEnvelopeSchema rejects bodies that carry no data at all.
var chatEnvelopeSchema = validation.MustCompile(map[string]interface{}{
	"type":          "object",
	"minProperties": 1,
})

var chatMessageSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"message"},
	"properties": map[string]interface{}{
		"message": map[string]interface{}{"type": "string", "minLength": 1},
	},
})

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.predictor.Ready() {
		s.errors.HandleHTTPError(w, r, apperrors.NewModelNotInitializedError())
		return
	}

	req, err := s.decodeChatRequest(w, r)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	s.log.Info("received chat request", map[string]interface{}{"message": req.Message})
	pred, err := s.predictor.Predict(r.Context(), req.Message)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pred)
}

func (s *Server) decodeChatRequest(w http.ResponseWriter, r *http.Request) (*chatRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxMessageBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewInvalidRequestError("Message too large")
		}
		return nil, apperrors.NewInvalidRequestError(msgNoData)
	}

	result, err := chatEnvelopeSchema.ValidateBytes(body)
	if err != nil || !result.Valid {
		return nil, apperrors.NewInvalidRequestError(msgNoData)
	}
	result, err = chatMessageSchema.ValidateBytes(body)
	if err != nil || !result.Valid {
		return nil, apperrors.NewInvalidRequestError(msgNoMessage)
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.NewInvalidRequestError(msgNoMessage)
	}
	return &req, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
