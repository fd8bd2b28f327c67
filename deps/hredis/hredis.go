package hredis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/fzft/simple-redis/resp"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultKeepAlive      = 15 * time.Second
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("hredis: connection closed")

// RedisContext is a blocking connection to a server. Commands are written to
// an output buffer and sent when a reply is requested, so several appended
// commands go out in one write.
type RedisContext struct {
	conn   net.Conn
	stream *resp.Stream
	writer *resp.Writer
	Addr   string

	pending int // commands written whose reply has not been read
	// Timeout bounds each blocking request. 0 disables it.
	Timeout time.Duration
}

// RedisConnect dials host:port with TCP keepalive enabled.
func RedisConnect(ctx context.Context, host string, port int) (*RedisContext, error) {
	d := net.Dialer{Timeout: DefaultConnectTimeout, KeepAlive: DefaultKeepAlive}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", addr, err)
	}
	return NewRedisContext(conn), nil
}

// NewRedisContext wraps an established connection.
func NewRedisContext(conn net.Conn) *RedisContext {
	return &RedisContext{
		conn:   conn,
		stream: resp.NewStream(),
		writer: resp.NewWriter(conn),
		Addr:   conn.RemoteAddr().String(),
	}
}

// RedisCommand formats a command the way printf would, splitting the format
// on spaces, sends it and waits for the reply. Supported verbs are %s and %d.
func (c *RedisContext) RedisCommand(format string, args ...any) (resp.Frame, error) {
	argv, err := redisFormatCommand(format, args...)
	if err != nil {
		return nil, err
	}
	return c.RedisCommandArgv(argv)
}

// RedisCommandArgv sends argv as one command and waits for its reply.
func (c *RedisContext) RedisCommandArgv(argv []string) (resp.Frame, error) {
	if err := c.AppendCommandArgv(argv); err != nil {
		return nil, err
	}
	return c.GetReply()
}

// AppendCommandArgv buffers argv as a command without sending it.
func (c *RedisContext) AppendCommandArgv(argv []string) error {
	if c.conn == nil {
		return ErrClosed
	}
	if len(argv) == 0 {
		return errors.New("hredis: empty command")
	}
	if err := c.writer.WriteFrame(resp.Command(argv[0], argv[1:]...)); err != nil {
		return err
	}
	c.pending++
	return nil
}

// GetReply flushes buffered commands and reads the next reply.
func (c *RedisContext) GetReply() (resp.Frame, error) {
	if c.conn == nil {
		return nil, ErrClosed
	}
	if c.Timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
			return nil, err
		}
	}
	if c.writer.Buffered() > 0 {
		if err := c.writer.Flush(); err != nil {
			return nil, fmt.Errorf("I/O error: %w", err)
		}
	}
	for {
		f, ok, err := c.stream.Next()
		if err != nil {
			return nil, fmt.Errorf("protocol error: %w", err)
		}
		if ok {
			if c.pending > 0 {
				c.pending--
			}
			return f, nil
		}
		if _, err := c.stream.Fill(c.conn); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("I/O error: %w", err)
		}
	}
}

// Pending returns the number of replies still owed by the server.
func (c *RedisContext) Pending() int {
	return c.pending
}

func (c *RedisContext) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// redisFormatCommand splits format on spaces into arguments, substituting %s
// with a string argument and %d with an int argument.
func redisFormatCommand(format string, args ...any) ([]string, error) {
	var curArg []byte
	var argv []string

	argIndex := 0 // To track the current argument in args
	touched := false

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			if c == ' ' {
				if touched {
					argv = append(argv, string(curArg))
					curArg = curArg[:0]
					touched = false
				}
			} else {
				curArg = append(curArg, c)
				touched = true
			}
			continue
		}

		i++
		if i >= len(format) {
			return nil, fmt.Errorf("Format string ended unexpectedly")
		}
		if format[i] == '%' {
			curArg = append(curArg, '%')
			touched = true
			continue
		}
		if argIndex >= len(args) {
			return nil, fmt.Errorf("Not enough arguments")
		}

		switch format[i] {
		case 's':
			str, ok := args[argIndex].(string)
			if !ok {
				return nil, fmt.Errorf("Expected a string argument")
			}
			curArg = append(curArg, str...)
		case 'd':
			num, ok := args[argIndex].(int)
			if !ok {
				return nil, fmt.Errorf("Expected an integer argument")
			}
			curArg = strconv.AppendInt(curArg, int64(num), 10)
		default:
			return nil, fmt.Errorf("Unsupported format specifier: %c", format[i])
		}
		argIndex++
		touched = true
	}

	if touched {
		argv = append(argv, string(curArg))
	}

	return argv, nil
}
