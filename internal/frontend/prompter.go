package frontend

import "log/slog"

// requestPrompter answers confirmations with what the browser already asked the user.
// Requests sent after an accepted hx-confirm dialog carry confirmed=true.
type requestPrompter struct {
	confirmed bool
	notices   []string
}

func newRequestPrompter(confirmed bool) *requestPrompter {
	return &requestPrompter{confirmed: confirmed}
}

func (p *requestPrompter) Confirm(message string) bool {
	if !p.confirmed {
		slog.Debug("request was not confirmed", "question", message)
	}
	return p.confirmed
}

func (p *requestPrompter) Alert(message string) {
	p.notices = append(p.notices, message)
}
