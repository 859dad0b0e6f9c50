package views

import (
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	appI18n "github.com/pavelanni/pathways/internal/i18n"
	"github.com/pavelanni/pathways/internal/model"
)

// AdminData is everything the admin dashboard shows.
type AdminData struct {
	Sessions     []model.SessionState
	Distribution []model.CodeCount
	Data         model.DataInfo
	Cleaned      int64 // -1 when no cleanup ran in this request
	Now          time.Time
}

// AdminPage renders the (unauthenticated) admin dashboard.
func AdminPage(d AdminData) templ.Component {
	return page("AdminHeading", func(h *html) {
		h.raw(`<h1>`)
		h.t("AdminHeading")
		h.raw(`</h1>`)
		if d.Cleaned >= 0 {
			h.raw(`<p class="notice">`)
			h.text(appI18n.Tp(h.ctx, "AdminCleaned", int(d.Cleaned)))
			h.raw(`</p>`)
		}

		h.raw(`<section class="card"><h2>`)
		h.t("AdminData")
		h.raw(`</h2><table><tr><th>`)
		h.t("ColSource")
		h.raw(`</th><th>`)
		h.t("ColItems")
		h.raw(`</th><th>`)
		h.t("ColDigest")
		h.raw(`</th></tr>`)
		dataRow(h, d.Data.QuestionsSource, d.Data.QuestionCount, d.Data.QuestionsSHA256)
		dataRow(h, d.Data.MatchesSource, d.Data.MatchCount, d.Data.MatchesSHA256)
		h.raw(`</table></section>`)

		h.raw(`<section class="card"><h2>`)
		h.t("AdminCodeDistribution")
		h.raw(`</h2>`)
		if len(d.Distribution) == 0 {
			h.raw(`<p>`)
			h.t("AdminNoSessions")
			h.raw(`</p>`)
		} else {
			h.raw(`<table><tr><th>`)
			h.t("ColCode")
			h.raw(`</th><th>`)
			h.t("ColCount")
			h.raw(`</th></tr>`)
			for _, cc := range d.Distribution {
				h.raw(`<tr><td>`)
				h.text(string(cc.Code))
				h.raw(`</td><td>`)
				h.text(humanize.Comma(int64(cc.Count)))
				h.raw(`</td></tr>`)
			}
			h.raw(`</table>`)
		}
		h.raw(`</section>`)

		h.raw(`<section class="card"><h2>`)
		h.t("AdminSessions")
		h.rawf(` (%s)</h2>`, humanize.Comma(int64(len(d.Sessions))))
		if len(d.Sessions) == 0 {
			h.raw(`<p>`)
			h.t("AdminNoSessions")
			h.raw(`</p>`)
		} else {
			h.raw(`<table><tr><th>`)
			h.t("ColSession")
			h.raw(`</th><th>`)
			h.t("ColAnswers")
			h.raw(`</th><th>`)
			h.t("ColCode")
			h.raw(`</th><th>`)
			h.t("ColUpdated")
			h.raw(`</th><th>`)
			h.t("ColExpires")
			h.raw(`</th></tr>`)
			for _, s := range d.Sessions {
				h.raw(`<tr><td><code>`)
				h.text(shortID(s.ID))
				h.raw(`</code></td><td>`)
				h.text(humanize.Comma(int64(len(s.Answers))))
				h.raw(`</td><td>`)
				h.text(string(s.Code))
				h.raw(`</td><td>`)
				h.text(humanize.RelTime(s.UpdatedAt, d.Now, "ago", "from now"))
				h.raw(`</td><td>`)
				h.text(humanize.RelTime(s.ExpiresAt, d.Now, "ago", "from now"))
				h.raw(`</td></tr>`)
			}
			h.raw(`</table>`)
		}
		h.raw(`</section>`)
		h.postButton("/admin/cleanup", "AdminCleanup", "btn secondary")
	})
}

func dataRow(h *html, source string, items int, digest string) {
	h.raw(`<tr><td>`)
	h.text(source)
	h.raw(`</td><td>`)
	h.text(humanize.Comma(int64(items)))
	h.raw(`</td><td><code>`)
	h.text(shortID(digest))
	h.raw(`</code></td></tr>`)
}

func shortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
