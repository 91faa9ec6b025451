package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned by a Prompter when the operator cancels input.
var ErrAborted = errors.New("input aborted")

// Prompter supplies one line of operator input per call. Implementations
// return io.EOF or ErrAborted when no more input will come.
type Prompter interface {
	Prompt(label string) (string, error)
}

// LinePrompter reads newline terminated answers from any reader. It is used
// for piped input and in tests.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (p *LinePrompter) Prompt(label string) (string, error) {
	if p.out != nil {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil {
		// A last line without a newline still counts.
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// FormPrompter asks each question with a terminal input field.
type FormPrompter struct {
	// Accessible switches huh to its screen reader friendly mode.
	Accessible bool
}

func (p *FormPrompter) Prompt(label string) (string, error) {
	var value string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(label).
				Value(&value),
		),
	).WithAccessible(p.Accessible)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("failed to read %q: %w", label, err)
	}

	return strings.TrimSpace(value), nil
}

// isEndOfInput reports whether err means the operator is done.
func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, ErrAborted)
}
