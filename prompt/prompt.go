// Package prompt asks the operator for table addresses on a text stream
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"regkeymap/fwimage"
)

var ErrInvalidAddress = errors.New("invalid address")

// ParseAddress parses a hex address the way it is copied out of a listing:
// "81001a2c", "0x81001A2C", "ram:81001a2c", "8100_1a2c" and "81001a2ch" are all accepted.
func ParseAddress(s string) (fwimage.ImageAddress, error) {
	str := strings.TrimSpace(s)
	if i := strings.LastIndexByte(str, ':'); i >= 0 {
		str = str[i+1:]
	}
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		str = str[2:]
	} else if strings.HasSuffix(str, "h") || strings.HasSuffix(str, "H") {
		str = str[:len(str)-1]
	}
	str = strings.NewReplacer("_", "", "`", "").Replace(str)

	if str == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	v, err := strconv.ParseUint(str, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return fwimage.ImageAddress(v), nil
}

// Prompter reads one answer per line
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints "<title> - <message> " and returns the next line without its line ending
func (p *Prompter) Ask(title, message string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s - %s ", title, message); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no answer for %q: %w", title, io.ErrUnexpectedEOF)
		}
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Prompter) AskAddress(title, message string) (fwimage.ImageAddress, error) {
	answer, err := p.Ask(title, message)
	if err != nil {
		return 0, err
	}
	return ParseAddress(answer)
}
