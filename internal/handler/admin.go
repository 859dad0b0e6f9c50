package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pavelanni/pathways/internal/handler/views"
)

func (h *Handler) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	h.renderAdmin(w, r, -1)
}

func (h *Handler) handleAdminCleanup(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.CleanupExpiredSessions()
	if err != nil {
		slog.Error("failed to clean up sessions", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "ErrorGeneric")
		return
	}
	slog.Info("expired sessions removed via admin", "count", n)
	h.renderAdmin(w, r, n)
}

func (h *Handler) renderAdmin(w http.ResponseWriter, r *http.Request, cleaned int64) {
	sessions, err := h.store.ListSessions()
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "ErrorGeneric")
		return
	}
	dist, err := h.store.CodeDistribution()
	if err != nil {
		slog.Error("failed to get code distribution", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "ErrorGeneric")
		return
	}
	info, err := h.store.GetDataInfo()
	if err != nil {
		slog.Error("failed to get data info", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "ErrorGeneric")
		return
	}

	h.render(w, r, http.StatusOK, views.AdminPage(views.AdminData{
		Sessions:     sessions,
		Distribution: dist,
		Data:         info,
		Cleaned:      cleaned,
		Now:          time.Now(),
	}))
}
