package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pavelanni/pathways/internal/model"
	"github.com/pavelanni/pathways/internal/scorer"
)

const maxAPIBody = 1 << 20

type scoreRequest struct {
	Answers []string `json:"answers"`
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// handleAPIScore scores an answer list without touching any session.
func (h *Handler) handleAPIScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAPIBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	answers, err := scorer.ParseAnswers(req.Answers)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}

	res, err := h.svc.Evaluate(answers)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCategory) {
			writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
			return
		}
		slog.Error("failed to evaluate answers", "error", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}
