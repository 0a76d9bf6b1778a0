package domain

// MailSummary is the assistant's digest of one mail.
type MailSummary struct {
	// Summary is the human-readable summary text.
	Summary string `json:"summary"`
	// HasEvent reports whether the mail mentions any schedulable event.
	HasEvent bool `json:"hasEvent"`
	// Events are the extracted candidate events. Only events with a
	// well-formed date survive extraction.
	Events []EventDetails `json:"events,omitempty"`
}
