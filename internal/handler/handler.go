package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/pathways/internal/assessment"
	"github.com/pavelanni/pathways/internal/handler/views"
	"github.com/pavelanni/pathways/internal/llm"
	"github.com/pavelanni/pathways/internal/model"
	"github.com/pavelanni/pathways/internal/scorer"
	"github.com/pavelanni/pathways/internal/store"
)

// Assistant answers free-form questions in the context of a result code.
type Assistant interface {
	Ask(ctx context.Context, q llm.Question) ([]string, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store     *store.Store
	svc       *assessment.Service
	assistant Assistant
	config    model.AppConfig
}

// New creates a new Handler. assistant may be nil to disable the chat page.
func New(s *store.Store, svc *assessment.Service, assistant Assistant, cfg model.AppConfig) (*Handler, error) {
	if s == nil || svc == nil {
		return nil, errors.New("handler: store and assessment service are required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = store.DefaultSessionTTL
	}
	cfg.AssistantEnabled = assistant != nil
	return &Handler{store: s, svc: svc, assistant: assistant, config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.sessionMiddleware)
		r.Use(h.csrfMiddleware)
		r.Get("/", h.handleIndex)
		r.Get("/assessment", h.handleAssessmentPage)
		r.Post("/assessment", h.handleSubmitAssessment)
		r.Get("/results", h.handleResults)
		r.Get("/matches", h.handleMatches)
		r.Get("/summary", h.handleSummary)
		r.Get("/done", h.handleDone)
		r.Post("/reset", h.handleReset)
		r.Get("/assistant", h.handleAssistantPage)
		r.Post("/assistant", h.handleAssistantMessage)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)
		r.Get("/admin", h.handleAdminPage)
		r.Post("/admin/cleanup", h.handleAdminCleanup)
	})
	r.Post("/api/score", h.handleAPIScore)
	r.NotFound(h.handleNotFound)
}

// BasePathMiddleware makes the configured base path available to views.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

// renderError shows the generic error page; details stay in the log.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msgID string) {
	h.render(w, r, status, views.ErrorPage(msgID))
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "ErrorNotFound")
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := model.SessionFromContext(r.Context())
	h.render(w, r, http.StatusOK, views.IndexPage(h.svc.Questions().Len(), sess.Answered()))
}

func (h *Handler) handleAssessmentPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.AssessmentPage(h.svc.Questions().Questions()))
}

func (h *Handler) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	sess := model.SessionFromContext(r.Context())

	raw := h.svc.Questions().Answers(r.PostFormValue)
	if len(raw) == 0 {
		// Plain list of letters, one "answer" field per response.
		raw = r.PostForm["answer"]
	}
	answers, err := scorer.ParseAnswers(raw)
	if err != nil {
		slog.Warn("rejected answers", "session_id", sess.ID, "error", err)
		h.renderError(w, r, http.StatusBadRequest, "ErrorInvalidAnswers")
		return
	}

	if err := h.store.SaveAnswers(sess.ID, answers, h.config.SessionTTL); err != nil {
		slog.Error("failed to save answers", "session_id", sess.ID, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "ErrorGeneric")
		return
	}
	slog.Info("answers submitted", "session_id", sess.ID, "count", len(answers))

	http.Redirect(w, r, h.path("/results"), http.StatusSeeOther)
}

// evaluate scores the session's answers and stores the resulting code.
func (h *Handler) evaluate(sess *model.SessionState) (assessment.Result, error) {
	res, err := h.svc.Evaluate(sess.Answers)
	if err != nil {
		return res, err
	}
	if res.Code != sess.Code {
		if err := h.store.SaveCode(sess.ID, res.Code, h.config.SessionTTL); err != nil {
			return res, err
		}
		sess.Code = res.Code
	}
	return res, nil
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	sess := model.SessionFromContext(r.Context())

	res, err := h.evaluate(sess)
	if err != nil {
		slog.Error("failed to compute results", "session_id", sess.ID, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "ErrorGeneric")
		return
	}

	h.render(w, r, http.StatusOK, views.ResultsPage(res, sess.Answered()))
}

func (h *Handler) handleMatches(w http.ResponseWriter, r *http.Request) {
	sess := model.SessionFromContext(r.Context())

	code := sess.Code
	if code == "" {
		res, err := h.evaluate(sess)
		if err != nil {
			slog.Error("failed to compute code", "session_id", sess.ID, "error", err)
			h.renderError(w, r, http.StatusInternalServerError, "ErrorGeneric")
			return
		}
		code = res.Code
	}

	h.render(w, r, http.StatusOK, views.MatchesPage(code, h.svc.MatchMajors(code), h.svc.MatchCareers(code)))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess := model.SessionFromContext(r.Context())

	res, err := h.evaluate(sess)
	if err != nil {
		slog.Error("failed to compute summary", "session_id", sess.ID, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "ErrorGeneric")
		return
	}

	h.render(w, r, http.StatusOK, views.SummaryPage(res, len(sess.Answers)))
}

func (h *Handler) handleDone(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.DonePage())
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := model.SessionFromContext(r.Context())
	if err := h.store.DeleteSession(sess.ID); err != nil {
		slog.Error("failed to delete session", "session_id", sess.ID, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "ErrorGeneric")
		return
	}
	h.clearSessionCookie(w)
	slog.Info("session cleared", "session_id", sess.ID)
	http.Redirect(w, r, h.path("/"), http.StatusSeeOther)
}

func (h *Handler) handleAssistantPage(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if !h.config.AssistantEnabled {
		status = http.StatusNotFound
	}
	h.render(w, r, status, views.AssistantPage(h.config.AssistantEnabled, nil, ""))
}

const assistantTimeout = 30 * time.Second

func (h *Handler) handleAssistantMessage(w http.ResponseWriter, r *http.Request) {
	if !h.config.AssistantEnabled {
		h.render(w, r, http.StatusNotFound, views.AssistantPage(false, nil, ""))
		return
	}
	sess := model.SessionFromContext(r.Context())

	text := r.FormValue("message")
	if text == "" {
		h.render(w, r, http.StatusBadRequest, views.AssistantPage(true, nil, ""))
		return
	}
	messages := []views.ChatMessage{{FromUser: true, Text: text}}

	q := llm.Question{Text: text}
	if sess.Answered() {
		res, err := h.evaluate(sess)
		if err != nil {
			slog.Error("failed to compute code for assistant", "session_id", sess.ID, "error", err)
		} else {
			q.Code, q.Majors, q.Careers = res.Code, res.Majors, res.Careers
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), assistantTimeout)
	defer cancel()
	blocks, err := h.assistant.Ask(ctx, q)
	if err != nil {
		slog.Error("assistant request failed", "session_id", sess.ID, "error", err)
		h.render(w, r, http.StatusBadGateway, views.AssistantPage(true, messages, "AssistantError"))
		return
	}
	for _, b := range blocks {
		messages = append(messages, views.ChatMessage{Text: b})
	}
	h.render(w, r, http.StatusOK, views.AssistantPage(true, messages, ""))
}
