package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompter reads answers from the console input. It is shared by the command
// loop and the record store's delete confirmation so both consume the same
// stream.
type Prompter struct {
	mu  sync.Mutex
	tty *os.File
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.tty = f
	}
	return p
}

// ReadPassword prints prompt and reads a line without echoing it when the
// input is a terminal. Piped input is read like any other line.
func (p *Prompter) ReadPassword(prompt string) (string, error) {
	p.mu.Lock()
	if p.tty == nil || p.in.Buffered() > 0 {
		p.mu.Unlock()
		return p.ReadLine(prompt)
	}
	defer p.mu.Unlock()

	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(int(p.tty.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ReadLine prints prompt and returns the next line without its line ending.
// A final line without a newline is returned with a nil error; io.EOF is
// returned only when no input is left.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question. Anything but "y" or "yes" is a no.
func (p *Prompter) Confirm(_ context.Context, prompt string) (bool, error) {
	answer, err := p.ReadLine(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
