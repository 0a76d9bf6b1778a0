package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanEmptyBody(t *testing.T) {
	n := New()
	assert.Empty(t, n.Clean(""))
}

func TestCleanRemovesSeparatorRuns(t *testing.T) {
	n := New()
	out := n.Clean("Header\n======\nContent")
	assert.NotContains(t, out, "=")
	assert.Contains(t, out, "Content")
}

func TestCleanRemovesBoilerplateLines(t *testing.T) {
	n := New()
	body := "Exam on Saturday at 10:00.\n" +
		"If you reply to mails received via this list, your reply goes to everyone.\n" +
		"To unsubscribe, send a mail to the list admin.\n" +
		"Your subscribed address is student@example.edu.\n" +
		"This is an automated message from the portal.\n" +
		"Please do not reply to this mail.\n"

	out := n.Clean(body)
	assert.Contains(t, out, "Exam on Saturday")
	assert.NotContains(t, out, "If you reply")
	assert.NotContains(t, out, "unsubscribe")
	assert.NotContains(t, out, "subscribed address")
	assert.NotContains(t, out, "automated message")
	assert.NotContains(t, out, "do not reply")
}

func TestCleanIsCaseInsensitive(t *testing.T) {
	n := New()
	out := n.Clean("Content here.\nTO UNSUBSCRIBE from this list, click below.\n")
	assert.NotContains(t, out, "UNSUBSCRIBE")
	assert.Contains(t, out, "Content here.")
}

func TestCleanCollapsesBlankRuns(t *testing.T) {
	n := New()
	out := n.Clean("Para one.\n\n\n\n\nPara two.")
	assert.Equal(t, "Para one.\n\nPara two.", out)
}

func TestCleanTrimsWhitespace(t *testing.T) {
	n := New()
	assert.Equal(t, "Body", n.Clean("  \nBody\n  "))
}
