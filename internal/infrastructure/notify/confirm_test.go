package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptConfirmer_Line(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "y", input: "y\n", want: true},
		{name: "yes mixed case", input: "  YeS \n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty line defaults to no", input: "\n", want: false},
		{name: "eof", input: "", want: false},
		{name: "answer without newline", input: "y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewPromptConfirmer(strings.NewReader(tt.input), &out)

			got := c.Confirm(context.Background(), "Delete PM-500?")

			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Delete PM-500? [y/N]: ", out.String())
		})
	}
}

func TestPromptConfirmer_ConsecutivePrompts(t *testing.T) {
	var out bytes.Buffer
	c := NewPromptConfirmer(strings.NewReader("n\ny\n"), &out)

	assert.False(t, c.Confirm(context.Background(), "first?"))
	assert.True(t, c.Confirm(context.Background(), "second?"))
}

func TestPromptConfirmer_AssumeYes(t *testing.T) {
	var out bytes.Buffer
	c := NewPromptConfirmer(strings.NewReader(""), &out, WithAssumeYes(true))

	assert.True(t, c.Confirm(context.Background(), "Load sample data?"))
	assert.Equal(t, "Load sample data? [y/N]: y\n", out.String())
}

func TestPromptConfirmer_CancelledContext(t *testing.T) {
	var out bytes.Buffer
	c := NewPromptConfirmer(strings.NewReader("y\n"), &out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, c.Confirm(ctx, "Delete?"))
	assert.Empty(t, out.String())
}

func TestPromptConfirmer_NonFileInputIsNotInteractive(t *testing.T) {
	c := NewPromptConfirmer(strings.NewReader(""), &bytes.Buffer{})
	assert.False(t, c.interactive)
}
