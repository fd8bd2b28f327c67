package node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/fzft/simple-redis/commands"
	"github.com/fzft/simple-redis/db"
	"github.com/fzft/simple-redis/log"
	"github.com/fzft/simple-redis/resp"
	"go.uber.org/zap"
)

// Client is one accepted connection. Its stream and writer are touched only
// by the goroutine running serve.
type Client struct {
	id          uint64                // client increment unique id
	addr        string                // remote address
	conn        net.Conn              // transport
	db          *db.Store             // shared keyspace
	stream      *resp.Stream          // buffer for client query
	writer      *resp.Writer          // buffered replies, flushed once per read
	idleTimeout time.Duration         // per-read deadline, 0 for none
	node        *db.ListNode[*Client] // position in the server's client list

	closeOnce sync.Once
}

func NewClient(id uint64, conn net.Conn, store *db.Store, idleTimeout time.Duration) *Client {
	return &Client{
		id:          id,
		addr:        conn.RemoteAddr().String(),
		conn:        conn,
		db:          store,
		stream:      resp.NewStream(),
		writer:      resp.NewWriter(conn),
		idleTimeout: idleTimeout,
	}
}

// Close closes the connection. Calls after the first return nil.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

// serve reads requests and writes replies until the peer goes away, ctx is
// cancelled, or the peer sends something that is not a valid request.
func (c *Client) serve(ctx context.Context) {
	defer c.Close()
	defer c.stream.Reset()

	for {
		n, readErr := c.readQuery()
		if n > 0 {
			if err := c.processInputBuffer(); err != nil {
				c.logError(err)
				if isProtocolError(err) {
					c.replyProtocolError(err)
				}
				return
			}
		}
		if readErr != nil {
			if ctx.Err() == nil {
				c.logError(readErr)
			}
			return
		}
	}
}

// readQuery performs one read from the connection into the query buffer.
func (c *Client) readQuery() (int, error) {
	if c.idleTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout)); err != nil {
			return 0, err
		}
	}
	return c.stream.Fill(c.conn)
}

// processInputBuffer executes every complete request in the query buffer, in
// order, then flushes the replies. A partial request stays buffered for the
// next read.
func (c *Client) processInputBuffer() error {
	for {
		f, ok, err := c.stream.Next()
		if err != nil {
			c.flush()
			return err
		}
		if !ok {
			break
		}
		if err := c.processCommand(f); err != nil {
			c.flush()
			return err
		}
	}
	return c.writer.Flush()
}

// processCommand parses and runs one request, queueing its reply.
func (c *Client) processCommand(f resp.Frame) error {
	cmd, err := commands.Parse(f)
	if err != nil {
		return err
	}
	reply := cmd.Execute(c.db)
	log.Logger.Debug("executed command",
		zap.Uint64("id", c.id),
		zap.String("cmd", cmd.Name()),
		zap.String("reply", resp.TypeName(reply)),
	)
	return c.AddReply(reply)
}

// AddReply queues f for the client.
func (c *Client) AddReply(f resp.Frame) error {
	return c.writer.WriteFrame(f)
}

// flush writes queued replies, ignoring errors: it only runs on the way to
// closing the connection.
func (c *Client) flush() {
	_ = c.writer.Flush()
}

// replyProtocolError tells the peer why the connection is being closed.
func (c *Client) replyProtocolError(err error) {
	msg := mapChars(fmt.Sprintf("ERR Protocol error: %v", err), "\r\n", "  ")
	if c.AddReply(resp.Error{Message: msg}) == nil {
		c.flush()
	}
}

func (c *Client) logError(err error) {
	fields := []zap.Field{zap.Uint64("id", c.id), zap.String("addr", c.addr), zap.Error(err)}
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), isConnReset(err):
		log.Logger.Debug("connection closed by peer", fields...)
	case isTimeout(err):
		log.Logger.Debug("connection idle timeout", fields...)
	default:
		log.Logger.Warn("connection error", fields...)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
