package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/credseal/internal/common"
)

// readPassword and isTerminal are test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// Input reads passwords from a command's input stream.
type Input struct {
	src  io.Reader
	line *bufio.Reader
}

// NewInput wraps src, usually the command's stdin.
func NewInput(src io.Reader) *Input {
	return &Input{src: src, line: bufio.NewReader(src)}
}

// terminal reports the descriptor of src when src is an interactive
// terminal. Readers that are not files always use line input.
func (in *Input) terminal() (int, bool) {
	f, ok := in.src.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, isTerminal(fd)
}

// GetPassword prints prompt to w and reads a password. On a terminal the
// input is not echoed; otherwise one line is read.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(in *Input, w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}

	if fd, ok := in.terminal(); ok {
		pw, err := readPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return nil, err
		}
		return pw, nil
	}

	line, err := in.line.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return nil, err
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

// GetNewPassword asks for a password twice and returns it if both entries
// match.
func GetNewPassword(in *Input, w io.Writer) ([]byte, error) {
	first, err := GetPassword(in, w, "New password: ")
	if err != nil {
		return nil, err
	}

	second, err := GetPassword(in, w, "Repeat password: ")
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		return nil, ErrPasswordMismatch
	}
	return first, nil
}
