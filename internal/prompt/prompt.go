// Package prompt implements the interactive questions asked by the CLI:
// single-line input with a prefilled answer, long content through the
// user's editor, comma-separated tags and picking an entry from a list.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pbaille/journal/internal/domain"
	"golang.org/x/term"
)

// ErrNoEditor is returned by Content when no editor is configured and
// input is not a terminal either.
var ErrNoEditor = errors.New("no editor configured")

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	editor      string
	interactive bool

	// runEditor is a test seam; it must edit the file at path in place.
	runEditor func(editor, path string) error
}

// New returns a Prompter over arbitrary streams. Content is read from in
// as multi-line text, the editor is never launched.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:        bufio.NewReader(in),
		out:       out,
		runEditor: launchEditor,
	}
}

// NewStdio returns a Prompter on the process' standard streams. When stdin
// is a terminal, content is written in editor.
func NewStdio(editor string) *Prompter {
	p := New(os.Stdin, os.Stdout)
	p.editor = editor
	p.interactive = term.IsTerminal(int(os.Stdin.Fd()))
	return p
}

// Line asks a one-line question. An empty answer, or end of input, keeps
// initial.
//
//	Enter entry title [01-03-2024 Entry]: _
func (p *Prompter) Line(prompt, initial string) (string, error) {
	if initial != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, initial)
	}
	if _, err := fmt.Fprint(p.out, prompt+": "); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return initial, nil
	}
	return line, nil
}

// Content returns the entry body. With a terminal and an editor, initial is
// opened in the editor and the saved text is returned. Otherwise lines are
// read until an empty line; no lines at all keeps initial.
func (p *Prompter) Content(initial string) (string, error) {
	if p.interactive && p.editor != "" {
		return p.editContent(initial)
	}
	return p.multiline(initial)
}

func (p *Prompter) editContent(initial string) (string, error) {
	f, err := os.CreateTemp("", "journal-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := p.runEditor(p.editor, path); err != nil {
		return "", fmt.Errorf("run editor %q: %w", p.editor, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func (p *Prompter) multiline(initial string) (string, error) {
	msg := "Enter entry content (press Enter on an empty line to finish)"
	if initial != "" {
		msg = "Enter entry content, or an empty line to keep the current one"
	}
	if _, err := fmt.Fprintln(p.out, msg); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := p.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	if len(lines) == 0 {
		return initial, nil
	}
	return strings.Join(lines, "\n"), nil
}

// Tags asks for comma-separated tags prefilled with current. An empty
// answer keeps current and "-" removes every tag.
func (p *Prompter) Tags(current []domain.Tag) ([]string, error) {
	answer, err := p.Line("Enter tags separated by comma (- for none)", domain.JoinTags(current))
	if err != nil {
		return nil, err
	}
	if answer == "-" {
		return []string{}, nil
	}
	return domain.ParseTags(answer), nil
}

// Select lists items numbered from 1 and returns the chosen index.
// Enter picks the first item; "q" or end of input selects nothing.
func (p *Prompter) Select(prompt string, items []string) (int, bool, error) {
	if len(items) == 0 {
		return 0, false, nil
	}
	for i, it := range items {
		if _, err := fmt.Fprintf(p.out, "%3d) %s\n", i+1, it); err != nil {
			return 0, false, err
		}
	}

	for {
		if p.atEOF() {
			return 0, false, nil
		}
		answer, err := p.Line(prompt, "1")
		if err != nil {
			return 0, false, err
		}
		if answer == "q" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, true, nil
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d\n", len(items))
	}
}

// atEOF reports whether no input is left to read.
func (p *Prompter) atEOF() bool {
	_, err := p.in.Peek(1)
	return errors.Is(err, io.EOF)
}

func launchEditor(editor, path string) error {
	args := strings.Fields(editor)
	if len(args) == 0 {
		return ErrNoEditor
	}
	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
