//go:build !unix

package node

// isConnReset is unix only; elsewhere resets are logged as ordinary
// connection errors.
func isConnReset(error) bool {
	return false
}
