//go:build linux

package node

import (
	"context"
	"net"
	"syscall"

	"github.com/fzft/simple-redis/config"
	"golang.org/x/sys/unix"
)

// listen opens the TCP listener. SO_REUSEADDR is always set; SO_REUSEPORT
// is added when the configuration asks for it.
func listen(ctx context.Context, cfg config.Config) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, rc syscall.RawConn) error {
			var sockErr error
			err := rc.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
				if sockErr == nil && cfg.ReusePort {
					sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
				}
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	return lc.Listen(ctx, "tcp", cfg.Addr())
}
