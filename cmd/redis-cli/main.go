package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fzft/simple-redis/cmd"
)

// Set through -ldflags "-X main.gitSHA1=... -X main.gitDirty=...".
var (
	gitSHA1  = "unknown"
	gitDirty = "unknown"
)

func main() {
	cli := cmd.NewRedisCli(gitSHA1, gitDirty)
	exit, err := cli.ParseArgs(os.Args[1:])
	if errors.Is(err, cmd.ErrUsage) {
		fmt.Fprintf(os.Stderr, "%s\n\n", err)
		cli.Usage(os.Stderr)
		os.Exit(1)
	}
	if exit {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	if err := cli.Run(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
