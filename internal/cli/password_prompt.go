package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errNotTerminal = errors.New("input is not a terminal")

// PromptPassword asks for a password on out and reads it from in without
// echo when in is a terminal. Piped input is read as a plain line.
func PromptPassword(prompt string, in *os.File, out io.Writer) (string, error) {
	if in == nil {
		return "", errors.New("stdin unavailable")
	}
	fmt.Fprint(out, prompt)

	password, err := readPasswordNoEcho(in)
	if errors.Is(err, errNotTerminal) {
		return readLine(in)
	}
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return password, nil
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
