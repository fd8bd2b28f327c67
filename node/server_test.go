package node

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/fzft/simple-redis/config"
	"github.com/fzft/simple-redis/db"
	"github.com/fzft/simple-redis/resp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ioTimeout = 5 * time.Second

type testServer struct {
	srv    *Server
	store  *db.Store
	addr   string
	cancel context.CancelFunc
	done   chan error
}

func startServer(t *testing.T, cfg config.Config) *testServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ts := &testServer{
		store:  db.New(4),
		addr:   ln.Addr().String(),
		cancel: cancel,
		done:   make(chan error, 1),
	}
	ts.srv = NewServer(cfg, ts.store)
	go func() { ts.done <- ts.srv.Serve(ctx, ln) }()

	t.Cleanup(func() { ts.stop(t) })
	return ts
}

func (ts *testServer) stop(t *testing.T) {
	ts.cancel()
	select {
	case err, ok := <-ts.done:
		if ok {
			assert.NoError(t, err)
			close(ts.done)
		}
	case <-time.After(ioTimeout):
		t.Error("server did not stop")
	}
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, ioTimeout)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(ioTimeout)))
	return conn
}

func send(t *testing.T, conn net.Conn, wire string) {
	t.Helper()
	_, err := io.WriteString(conn, wire)
	require.NoError(t, err)
}

func expect(t *testing.T, conn net.Conn, want string) {
	t.Helper()
	buf := make([]byte, len(want))
	_, err := io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, want, string(buf))
}

func wire(command string, args ...string) string {
	return string(resp.Encode(resp.Command(command, args...)))
}

func TestSetThenGet(t *testing.T) {
	ts := startServer(t, config.Default())
	conn := dial(t, ts.addr)

	send(t, conn, "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$5\r\nhello\r\n")
	expect(t, conn, "+OK\r\n")

	send(t, conn, "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n")
	expect(t, conn, "$5\r\nhello\r\n")

	send(t, conn, wire("GET", "missing"))
	expect(t, conn, "_\r\n")

	v, ok := ts.store.Get("foo")
	require.True(t, ok)
	assert.Equal(t, resp.BlobString{Value: "hello"}, v)
}

func TestPipelinedRequests(t *testing.T) {
	ts := startServer(t, config.Default())
	conn := dial(t, ts.addr)

	send(t, conn, wire("SET", "k", "v")+wire("GET", "k")+wire("GET", "nope")+wire("PING"))
	expect(t, conn, "+OK\r\n$1\r\nv\r\n_\r\n+OK\r\n")
}

func TestRequestSplitAcrossWrites(t *testing.T) {
	ts := startServer(t, config.Default())
	conn := dial(t, ts.addr)

	request := wire("SET", "split", "across writes")
	for i := 0; i < len(request); i += 3 {
		end := i + 3
		if end > len(request) {
			end = len(request)
		}
		send(t, conn, request[i:end])
		time.Sleep(time.Millisecond)
	}
	expect(t, conn, "+OK\r\n")

	send(t, conn, wire("GET", "split"))
	expect(t, conn, "$13\r\nacross writes\r\n")
}

func TestUnknownVerbAcknowledged(t *testing.T) {
	ts := startServer(t, config.Default())
	conn := dial(t, ts.addr)

	send(t, conn, wire("HELLO", "3"))
	expect(t, conn, "+OK\r\n")
}

func TestArityErrorKeepsConnection(t *testing.T) {
	ts := startServer(t, config.Default())
	conn := dial(t, ts.addr)

	send(t, conn, wire("GET"))
	expect(t, conn, "-ERR wrong number of arguments for 'get' command\r\n")

	send(t, conn, wire("SET", "still", "open"))
	expect(t, conn, "+OK\r\n")
}

func TestProtocolErrorClosesConnection(t *testing.T) {
	tests := []struct {
		name    string
		request string
		want    string
	}{
		{"non-array request", "+PING\r\n", "invalid command: command must be an array, got simple string"},
		{"unknown marker", "?x\r\n", "invalid frame type"},
		{"bad length", "*2\r\n$abc\r\n", "parse length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := startServer(t, config.Default())
			conn := dial(t, ts.addr)

			send(t, conn, wire("SET", "a", "1")+tt.request)
			out, err := io.ReadAll(conn)
			require.NoError(t, err)

			lines := strings.SplitN(string(out), "\r\n", 2)
			require.Len(t, lines, 2)
			assert.Equal(t, "+OK", lines[0])
			assert.True(t, strings.HasPrefix(lines[1], "-ERR Protocol error: "), lines[1])
			assert.Contains(t, lines[1], tt.want)
			assert.True(t, strings.HasSuffix(lines[1], "\r\n"))
			assert.Equal(t, 1, strings.Count(lines[1], "\r\n"))
		})
	}
}

func TestShutdownClosesConnections(t *testing.T) {
	ts := startServer(t, config.Default())
	conn := dial(t, ts.addr)

	send(t, conn, wire("SET", "a", "1"))
	expect(t, conn, "+OK\r\n")
	assert.Equal(t, 1, ts.srv.Clients())

	// A partial request is dropped with the connection.
	send(t, conn, "*2\r\n$3\r\nGET")
	ts.stop(t)

	_, err := conn.Read(make([]byte, 1))
	assert.Error(t, err)
	assert.Equal(t, 0, ts.srv.Clients())

	_, err = net.DialTimeout("tcp", ts.addr, time.Second)
	assert.Error(t, err)
}

func TestClientCountTracksDisconnects(t *testing.T) {
	ts := startServer(t, config.Default())
	conn := dial(t, ts.addr)
	send(t, conn, wire("PING"))
	expect(t, conn, "+OK\r\n")
	assert.Equal(t, 1, ts.srv.Clients())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return ts.srv.Clients() == 0 }, ioTimeout, 10*time.Millisecond)
}

func TestIdleTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.IdleTimeout = 50 * time.Millisecond
	ts := startServer(t, cfg)
	conn := dial(t, ts.addr)

	start := time.Now()
	_, err := conn.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
	assert.GreaterOrEqual(t, time.Since(start), cfg.IdleTimeout/2)
}

func TestRunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.Default()
	cfg.Bind = "127.0.0.1"
	cfg.Port = ln.Addr().(*net.TCPAddr).Port

	err = NewServer(cfg, db.New(1)).Run(context.Background())
	assert.Error(t, err)
}
