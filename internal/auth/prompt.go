package auth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Prompter asks for credentials on a terminal. The password is read without
// echo when the input is a TTY.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// NewPrompter prompts on stdin and writes the questions to stderr.
func NewPrompter() *Prompter {
	fd := int(os.Stdin.Fd())
	return &Prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stderr,
		fd:  fd,
		tty: term.IsTerminal(fd),
	}
}

// newReaderPrompter reads both answers as plain lines from in.
func newReaderPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Credentials asks for email and password.
func (p *Prompter) Credentials() (string, string, error) {
	fmt.Fprintln(p.out, "Agent login required")

	fmt.Fprint(p.out, "Email: ")
	email, err := p.readLine()
	if err != nil {
		return "", "", errors.Wrap(err, "read email")
	}

	fmt.Fprint(p.out, "Password: ")
	var password string
	if p.tty {
		raw, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", "", errors.Wrap(err, "read password")
		}
		password = string(raw)
	} else {
		password, err = p.readLine()
		if err != nil {
			return "", "", errors.Wrap(err, "read password")
		}
	}

	if email == "" || password == "" {
		return "", "", errors.New("email and password are required")
	}
	return email, password, nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
