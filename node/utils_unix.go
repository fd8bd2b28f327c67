//go:build unix

package node

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isConnReset reports whether err is the peer dropping the connection
// abruptly, which is routine for a server and not worth a warning.
func isConnReset(err error) bool {
	return errors.Is(err, unix.ECONNRESET) ||
		errors.Is(err, unix.EPIPE) ||
		errors.Is(err, unix.ECONNABORTED)
}
