//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import "os"

func readPasswordNoEcho(_ *os.File) (string, error) {
	return "", errNotTerminal
}
