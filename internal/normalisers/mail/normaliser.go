// Package mail strips mailing-list and notification boilerplate from raw
// mail bodies. Campus mailing lists pad every message with reply warnings,
// unsubscribe footers, and separator runs; removing them keeps the prompt
// focused on the actual content.
package mail

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.MailNormaliser = (*Normaliser)(nil)

// boilerplate lines are removed wherever they appear, case-insensitively.
// Each pattern eats through the end of its line.
var boilerplate = []*regexp.Regexp{
	regexp.MustCompile(`(?i)If you reply to mails received.*?\n`),
	regexp.MustCompile(`(?i)please take care.*?\n`),
	regexp.MustCompile(`(?i)NOT\*\*`),
	regexp.MustCompile(`(?i)To unsubscribe.*?\n`),
	regexp.MustCompile(`(?i)Your subscribed address.*?\n`),
	regexp.MustCompile(`(?i)automated message.*?\n`),
	regexp.MustCompile(`(?i)do not reply.*?\n`),
	regexp.MustCompile(`(?i)PLEASE READ BELOW.*?\n`),
}

var (
	separatorRuns = regexp.MustCompile(`=+`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// Normaliser removes mailing-list boilerplate from mail bodies.
type Normaliser struct{}

// New creates a new mail normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Clean returns the cleaned body text.
func (n *Normaliser) Clean(body string) string {
	if body == "" {
		return ""
	}

	cleaned := separatorRuns.ReplaceAllString(body, "")
	for _, re := range boilerplate {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = blankRuns.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}
