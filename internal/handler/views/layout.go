// Package views renders the HTML pages as templ components.
package views

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/pathways/internal/i18n"
	"github.com/pavelanni/pathways/internal/model"
)

// html accumulates output and keeps the first write error.
type html struct {
	w   io.Writer
	ctx context.Context
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// text writes escaped text.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// t writes an escaped translation.
func (h *html) t(msgID string) {
	h.text(appI18n.T(h.ctx, msgID))
}

// href returns an escaped, base-path-prefixed URL.
func (h *html) href(path string) string {
	return templ.EscapeString(model.BasePathFromContext(h.ctx) + path)
}

func (h *html) link(path, msgID, class string) {
	h.rawf(`<a href="%s" class="%s">`, h.href(path), class)
	h.t(msgID)
	h.raw(`</a>`)
}

// csrfField writes the hidden CSRF input for form posts.
func (h *html) csrfField() {
	h.rawf(`<input type="hidden" name="csrf_token" value="%s">`,
		templ.EscapeString(model.CSRFTokenFromContext(h.ctx)))
}

func (h *html) postButton(path, msgID, class string) {
	h.rawf(`<form method="post" action="%s" class="inline">`, h.href(path))
	h.csrfField()
	h.rawf(`<button type="submit" class="%s">`, class)
	h.t(msgID)
	h.raw(`</button></form>`)
}

var navItems = []struct{ path, msgID string }{
	{"/", "NavHome"},
	{"/assessment", "NavAssessment"},
	{"/results", "NavResults"},
	{"/matches", "NavMatches"},
	{"/summary", "NavSummary"},
	{"/assistant", "NavAssistant"},
	{"/admin", "NavAdmin"},
}

// page wraps body in the common layout.
func page(titleID string, body func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w, ctx: ctx}
		h.raw(`<!DOCTYPE html><html><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.t(titleID)
		h.raw(` · `)
		h.t("AppTitle")
		h.raw(`</title><style>` + stylesheet + `</style></head><body>`)
		h.raw(`<header class="top"><div class="brand">`)
		h.t("AppTitle")
		h.raw(`<span class="motto">`)
		h.t("Tagline")
		h.raw(`</span></div><nav>`)
		for _, item := range navItems {
			h.link(item.path, item.msgID, "nav")
		}
		h.raw(`</nav></header><main>`)
		body(h)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
)

// formatMessage escapes s and renders **bold** and *italic* markup.
func formatMessage(s string) string {
	s = templ.EscapeString(s)
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	return strings.ReplaceAll(s, "\n", "<br>")
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;color:#1d2733;background:#f6f7f9}
header.top{background:#0b3d6b;color:#fff;padding:.75rem 1.5rem;display:flex;flex-wrap:wrap;align-items:center;gap:1rem}
.brand{font-size:1.4rem;font-weight:700}.motto{font-size:.85rem;font-weight:400;margin-left:.5rem;color:#ffd24c}
nav a.nav{color:#fff;margin-right:1rem;text-decoration:none}
main{max-width:52rem;margin:1.5rem auto;padding:0 1rem}
.card{background:#fff;border-radius:.5rem;padding:1rem 1.25rem;margin-bottom:1rem;box-shadow:0 1px 2px rgba(0,0,0,.08)}
.code{font-size:3rem;font-weight:800;letter-spacing:.3rem;color:#0b3d6b}
.bar{background:#0b3d6b;height:.8rem;border-radius:.2rem}
.btn{background:#0b3d6b;color:#fff;border:0;border-radius:.3rem;padding:.5rem 1rem;text-decoration:none;cursor:pointer;display:inline-block}
.btn.secondary{background:#6b7785}
form.inline{display:inline}
table{border-collapse:collapse;width:100%}td,th{text-align:left;padding:.3rem .5rem;border-bottom:1px solid #e3e6ea}
.bubble{padding:.5rem .75rem;border-radius:.75rem;margin:.25rem 0;max-width:80%}
.bubble.user{background:#0b3d6b;color:#fff;margin-left:auto}.bubble.bot{background:#e9edf2}
.notice{color:#8a5a00}
`
