package driven

// MailNormaliser strips boilerplate from a raw mail body before it is shown
// to the user or handed to the text-generation service.
type MailNormaliser interface {
	// Clean returns the cleaned body text.
	Clean(body string) string
}
