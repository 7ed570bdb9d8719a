package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := out
	buf := new(bytes.Buffer)
	SetOutput(buf)
	t.Cleanup(func() {
		out = prev
		debugEnabled = false
	})
	return buf
}

func TestCenter(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"even padding", "ab", 6, "  ab  "},
		{"odd padding goes right", "abc", 6, " abc  "},
		{"exact width", "abcdef", 6, "abcdef"},
		{"too long", "abcdefgh", 6, "abcdefgh"},
		{"empty", "", 4, "    "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Center(tt.in, tt.width))
		})
	}
}

func TestBanner(t *testing.T) {
	buf := capture(t)

	Banner("Checking Files")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if assert.Len(t, lines, 3) {
		assert.Equal(t, Border, lines[0])
		assert.Equal(t, Border, lines[2])
		assert.Len(t, lines[1], 60)
		assert.True(t, strings.HasPrefix(lines[1], "# "))
		assert.True(t, strings.HasSuffix(lines[1], " #"))
		assert.Contains(t, lines[1], "Checking Files")
	}
}

func TestFootNote(t *testing.T) {
	buf := capture(t)

	FootNote("Files found.")

	line := strings.TrimRight(buf.String(), "\n")
	assert.Len(t, line, 60)
	assert.Contains(t, line, "Files found.")
}

func TestDebugIsGated(t *testing.T) {
	buf := capture(t)

	Init(false, true)
	Debug("[DEBUG] hidden %d\n", 1)
	assert.Empty(t, buf.String())

	Init(true, true)
	Debug("[DEBUG] shown %d\n", 2)
	assert.Equal(t, "[DEBUG] shown 2\n", buf.String())
}

func TestLevelsWriteUncoloredToBuffers(t *testing.T) {
	buf := capture(t)

	Info("git is installed on this system.\n")
	Warn("careful\n")
	Error("broken\n")

	assert.Equal(t, "git is installed on this system.\ncareful\nbroken\n", buf.String())
}
