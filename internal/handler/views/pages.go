package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/pavelanni/pathways/internal/assessment"
	appI18n "github.com/pavelanni/pathways/internal/i18n"
	"github.com/pavelanni/pathways/internal/model"
	"github.com/pavelanni/pathways/internal/questions"
)

// IndexPage is the home page.
func IndexPage(numQuestions int, answered bool) templ.Component {
	return page("NavHome", func(h *html) {
		h.raw(`<section class="card"><h1>`)
		h.t("IndexHeading")
		h.raw(`</h1><p>`)
		h.t("IndexIntro")
		h.raw(`</p><p>`)
		h.text(appI18n.Tp(h.ctx, "QuestionsAvailable", numQuestions))
		h.raw(`</p>`)
		h.link("/assessment", "StartAssessment", "btn")
		if answered {
			h.raw(` `)
			h.link("/results", "ContinueToResults", "btn secondary")
		}
		h.raw(`</section>`)
	})
}

// AssessmentPage renders the questionnaire form.
func AssessmentPage(qs []model.Question) templ.Component {
	return page("NavAssessment", func(h *html) {
		h.raw(`<h1>`)
		h.t("AssessmentHeading")
		h.raw(`</h1><p>`)
		h.t("AssessmentIntro")
		h.rawf(`</p><form method="post" action="%s">`, h.href("/assessment"))
		h.csrfField()
		for i, q := range qs {
			field := questions.FieldName(q.ID)
			h.raw(`<fieldset class="card"><legend>`)
			h.text(appI18n.Td(h.ctx, "QuestionN", map[string]any{"N": i + 1}))
			h.raw(`</legend><p>`)
			h.text(q.Prompt)
			h.raw(`</p>`)
			for j, o := range q.Options {
				id := field + "_" + strconv.Itoa(j)
				h.rawf(`<div><input type="radio" id="%s" name="%s" value="%s"> <label for="%s">`,
					id, field, templ.EscapeString(string(o.Category)), id)
				h.text(o.Label)
				h.raw(`</label></div>`)
			}
			h.raw(`</fieldset>`)
		}
		h.raw(`<button type="submit" class="btn">`)
		h.t("SubmitAnswers")
		h.raw(`</button></form>`)
	})
}

func (h *html) tally(res assessment.Result) {
	total := res.Tally.Sum()
	h.raw(`<table>`)
	for _, c := range res.Ranking {
		n := res.Tally[c]
		width := 0
		if total > 0 {
			width = n * 100 / total
		}
		h.rawf(`<tr><th>%s</th><td>`, templ.EscapeString(string(c)))
		h.t("Category" + string(c))
		h.rawf(`</td><td>%d</td><td style="width:50%%"><div class="bar" style="width:%d%%"></div></td></tr>`, n, width)
	}
	h.raw(`</table>`)
}

// ResultsPage shows the result code and how the answers added up.
func ResultsPage(res assessment.Result, answered bool) templ.Component {
	return page("NavResults", func(h *html) {
		h.raw(`<section class="card"><h1>`)
		h.t("ResultsHeading")
		h.raw(`</h1><div class="code">`)
		h.text(string(res.Code))
		h.raw(`</div>`)
		if !answered {
			h.raw(`<p class="notice">`)
			h.t("ResultsNoAnswers")
			h.raw(`</p>`)
		}
		h.raw(`<p>`)
		for i, c := range res.Code.Categories() {
			if i > 0 {
				h.raw(` · `)
			}
			h.t("Category" + string(c))
		}
		h.raw(`</p></section><section class="card"><h2>`)
		h.t("TallyHeading")
		h.raw(`</h2>`)
		h.tally(res)
		h.raw(`</section>`)
		h.link("/matches", "ViewMatches", "btn")
	})
}

func (h *html) list(titleID string, items []string) {
	h.raw(`<section class="card"><h2>`)
	h.t(titleID)
	h.raw(`</h2>`)
	if len(items) == 0 {
		h.raw(`<p class="notice">`)
		h.t("NoMatches")
		h.raw(`</p></section>`)
		return
	}
	h.raw(`<ul>`)
	for _, it := range items {
		h.raw(`<li>`)
		h.text(it)
		h.raw(`</li>`)
	}
	h.raw(`</ul></section>`)
}

// MatchesPage lists majors and careers for a code.
func MatchesPage(code model.Code, majors, careers []string) templ.Component {
	return page("NavMatches", func(h *html) {
		h.raw(`<h1>`)
		h.text(appI18n.Td(h.ctx, "MatchesHeading", map[string]any{"Code": string(code)}))
		h.raw(`</h1>`)
		h.list("Majors", majors)
		h.list("Careers", careers)
		h.link("/summary", "ViewSummary", "btn")
	})
}

// SummaryPage recaps the session: code, breakdown and match counts.
func SummaryPage(res assessment.Result, numAnswers int) templ.Component {
	return page("NavSummary", func(h *html) {
		h.raw(`<section class="card"><h1>`)
		h.t("SummaryHeading")
		h.raw(`</h1><div class="code">`)
		h.text(string(res.Code))
		h.raw(`</div><p>`)
		h.text(appI18n.Tp(h.ctx, "SummaryAnswered", numAnswers))
		h.raw(` `)
		h.text(appI18n.Td(h.ctx, "SummaryMatches", map[string]any{
			"Majors":  len(res.Majors),
			"Careers": len(res.Careers),
		}))
		h.raw(`</p>`)
		h.tally(res)
		h.raw(`</section>`)
		h.link("/done", "Finish", "btn")
	})
}

// DonePage is the completion view.
func DonePage() templ.Component {
	return page("DoneHeading", func(h *html) {
		h.raw(`<section class="card"><h1>`)
		h.t("DoneHeading")
		h.raw(`</h1><p>`)
		h.t("DoneText")
		h.raw(`</p>`)
		h.link("/", "BackHome", "btn secondary")
		h.raw(` `)
		h.postButton("/reset", "StartOver", "btn")
		h.raw(`</section>`)
	})
}

// ErrorPage is the generic error view. msgID selects the user-facing message.
func ErrorPage(msgID string) templ.Component {
	return page("ErrorHeading", func(h *html) {
		h.raw(`<section class="card"><h1>`)
		h.t("ErrorHeading")
		h.raw(`</h1><p>`)
		h.t(msgID)
		h.raw(`</p>`)
		h.link("/", "BackHome", "btn")
		h.raw(`</section>`)
	})
}
