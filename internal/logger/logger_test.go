package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugRespectsVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	defer SetVerbose(false)
	Debug("shown %d", 2)
	assert.True(t, strings.Contains(buf.String(), "[DEBUG] shown 2"))
}

func TestWarnAlwaysPrints(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Warn("something degraded: %s", "disk")
	assert.Contains(t, buf.String(), "[WARN] something degraded: disk")
}
