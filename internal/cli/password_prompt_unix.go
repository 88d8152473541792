//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func readPasswordNoEcho(stdin *os.File) (string, error) {
	fd := int(stdin.Fd())
	original, err := unix.IoctlGetTermios(fd, termiosReadRequest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNotTerminal, err)
	}

	silent := *original
	silent.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, termiosWriteRequest, &silent); err != nil {
		return "", err
	}
	defer unix.IoctlSetTermios(fd, termiosWriteRequest, original)

	return readLine(stdin)
}
