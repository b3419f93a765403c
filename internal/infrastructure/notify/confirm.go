package notify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// PromptConfirmer asks yes/no questions on a terminal. On a TTY it renders a
// huh confirm field; otherwise it reads one line and accepts y or yes.
// Anything else, including EOF and a cancelled context, answers no.
type PromptConfirmer struct {
	in          io.Reader
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
	assumeYes   bool
	logger      *zap.Logger
}

// ConfirmOption configures a PromptConfirmer
type ConfirmOption func(*PromptConfirmer)

// WithAssumeYes answers every prompt with yes without reading input
func WithAssumeYes(yes bool) ConfirmOption {
	return func(c *PromptConfirmer) {
		c.assumeYes = yes
	}
}

// WithConfirmLogger sets the logger used to record answers
func WithConfirmLogger(logger *zap.Logger) ConfirmOption {
	return func(c *PromptConfirmer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInteractive forces the interactive or line-based prompt
func WithInteractive(interactive bool) ConfirmOption {
	return func(c *PromptConfirmer) {
		c.interactive = interactive
	}
}

// NewPromptConfirmer creates a confirmer reading from in and writing prompts
// to out. The interactive prompt is used when in is a terminal.
func NewPromptConfirmer(in io.Reader, out io.Writer, opts ...ConfirmOption) *PromptConfirmer {
	c := &PromptConfirmer{
		in:          in,
		reader:      bufio.NewReader(in),
		out:         out,
		interactive: isTerminal(in),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Confirm asks message and reports whether the operator agreed
func (c *PromptConfirmer) Confirm(ctx context.Context, message string) bool {
	if c.assumeYes {
		_, _ = fmt.Fprintf(c.out, "%s [y/N]: y\n", message)
		c.logger.Debug("prompt auto-confirmed", zap.String("prompt", message))
		return true
	}
	if ctx.Err() != nil {
		return false
	}

	var (
		ok  bool
		err error
	)
	if c.interactive {
		ok, err = c.confirmForm(ctx, message)
	} else {
		ok, err = c.confirmLine(message)
	}
	if err != nil {
		if !errors.Is(err, huh.ErrUserAborted) && !errors.Is(err, io.EOF) {
			c.logger.Warn("prompt failed", zap.String("prompt", message), zap.Error(err))
		}
		return false
	}
	c.logger.Debug("prompt answered", zap.String("prompt", message), zap.Bool("confirmed", ok))
	return ok
}

func (c *PromptConfirmer) confirmForm(ctx context.Context, message string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithInput(c.in).WithOutput(c.out).WithShowHelp(false)
	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return ok, nil
}

func (c *PromptConfirmer) confirmLine(message string) (bool, error) {
	if _, err := fmt.Fprintf(c.out, "%s [y/N]: ", message); err != nil {
		return false, err
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
