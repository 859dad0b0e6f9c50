package views

import (
	"github.com/a-h/templ"
)

// ChatMessage is one bubble in the assistant conversation.
type ChatMessage struct {
	FromUser bool
	Text     string
}

// AssistantPage renders the chat page. errMsgID, when set, is shown after the messages.
func AssistantPage(enabled bool, messages []ChatMessage, errMsgID string) templ.Component {
	return page("AssistantHeading", func(h *html) {
		h.raw(`<section class="card"><h1>`)
		h.t("AssistantHeading")
		h.raw(`</h1>`)
		if !enabled {
			h.raw(`<p class="notice">`)
			h.t("AssistantDisabled")
			h.raw(`</p></section>`)
			return
		}
		h.raw(`<p>`)
		h.t("AssistantIntro")
		h.raw(`</p><div class="chat">`)
		for _, m := range messages {
			if m.FromUser {
				h.raw(`<div class="bubble user" title="`)
				h.t("AssistantYou")
				h.raw(`">`)
				h.text(m.Text)
			} else {
				h.raw(`<div class="bubble bot" title="`)
				h.t("AssistantBot")
				h.raw(`">`)
				h.raw(formatMessage(m.Text))
			}
			h.raw(`</div>`)
		}
		if errMsgID != "" {
			h.raw(`<div class="bubble bot notice">`)
			h.t(errMsgID)
			h.raw(`</div>`)
		}
		h.rawf(`</div><form method="post" action="%s">`, h.href("/assistant"))
		h.csrfField()
		h.raw(`<input type="text" name="message" required placeholder="`)
		h.t("AssistantPlaceholder")
		h.raw(`"> <button type="submit" class="btn">`)
		h.t("Send")
		h.raw(`</button></form></section>`)
	})
}
