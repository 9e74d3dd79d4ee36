package ui

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Prompter reads line-oriented answers from an input stream.
type Prompter struct {
	reader *bufio.Reader
}

// NewPrompter creates a prompter over in.
func NewPrompter(in io.Reader) *Prompter {
	return &Prompter{reader: bufio.NewReader(in)}
}

// ReadLine returns the next input line without its line terminator.
// io.EOF is returned only once the input is exhausted.
func (p *Prompter) ReadLine() (string, error) {
	input, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimRight(input, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}
