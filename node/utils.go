package node

import (
	"errors"
	"strings"

	"github.com/fzft/simple-redis/commands"
	"github.com/fzft/simple-redis/resp"
)

// mapChars replaces every byte of from found in s with the byte of to at the
// same position.
func mapChars(s, from, to string) string {
	for i := 0; i < len(from); i++ {
		s = strings.ReplaceAll(s, string(from[i]), string(to[i]))
	}
	return s
}

// isProtocolError reports whether err came from the bytes the peer sent
// rather than from the transport.
func isProtocolError(err error) bool {
	return errors.Is(err, resp.ErrInvalidFrame) ||
		errors.Is(err, resp.ErrInvalidFrameType) ||
		errors.Is(err, commands.ErrInvalidCommand)
}
