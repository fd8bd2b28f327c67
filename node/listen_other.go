//go:build !linux

package node

import (
	"context"
	"net"

	"github.com/fzft/simple-redis/config"
	"github.com/fzft/simple-redis/log"
)

func listen(ctx context.Context, cfg config.Config) (net.Listener, error) {
	if cfg.ReusePort {
		log.Logger.Warn("reuse_port is only supported on linux, ignoring")
	}
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", cfg.Addr())
}
