package node

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fzft/simple-redis/config"
	"github.com/fzft/simple-redis/db"
	"github.com/fzft/simple-redis/log"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// acceptRetryDelay is how long the accept loop backs off after a temporary
// accept error.
const acceptRetryDelay = 50 * time.Millisecond

// Server accepts connections and serves each one on its own goroutine
// against a shared store.
type Server struct {
	cfg config.Config
	db  *db.Store

	nextID atomic.Uint64

	mu      sync.Mutex
	clients *db.List[*Client] // live connections, closed on shutdown
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	return &Server{
		cfg:     cfg,
		db:      store,
		clients: db.NewList[*Client](),
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := listen(ctx, s.cfg)
	if err != nil {
		log.Logger.Error("listen error", zap.String("addr", s.cfg.Addr()), zap.Error(err))
		return err
	}
	log.Logger.Info("listening on", zap.Stringer("addr", ln.Addr()))
	err = s.Serve(ctx, ln)
	log.Logger.Info("shutting down server")
	return err
}

// Serve accepts connections from ln until ctx is cancelled or ln fails.
// On return ln and every connection accepted from it are closed and all
// connection goroutines have exited.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return s.closeAll(ln)
	})

	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				var ne net.Error
				if errors.As(err, &ne) && ne.Timeout() {
					log.Logger.Warn("accept error, retrying", zap.Error(err))
					time.Sleep(acceptRetryDelay)
					continue
				}
				return err
			}

			c := s.addClient(conn)
			if c == nil {
				return nil
			}
			g.Go(func() error {
				defer s.removeClient(c)
				c.serve(ctx)
				return nil
			})
		}
	})

	err := g.Wait()
	if errors.Is(err, net.ErrClosed) && ctx.Err() != nil {
		return nil
	}
	return err
}

// addClient registers conn. It returns nil, closing conn, once the server is
// shutting down.
func (s *Server) addClient(conn net.Conn) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients == nil {
		conn.Close()
		return nil
	}
	c := NewClient(s.nextID.Add(1), conn, s.db, s.cfg.IdleTimeout)
	c.node = s.clients.AddNodeTail(c)
	log.Logger.Debug("accepted connection", zap.Uint64("id", c.id), zap.String("addr", c.addr))
	return c
}

func (s *Server) removeClient(c *Client) {
	s.mu.Lock()
	if s.clients != nil {
		s.clients.RemoveNode(c.node)
	}
	s.mu.Unlock()
	log.Logger.Debug("closed connection", zap.Uint64("id", c.id), zap.String("addr", c.addr))
}

// Clients returns the number of live connections.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients == nil {
		return 0
	}
	return s.clients.Len()
}

// closeAll closes the listener and every live connection. Connections
// accepted afterwards are refused.
func (s *Server) closeAll(ln net.Listener) error {
	err := ln.Close()

	s.mu.Lock()
	clients := s.clients.Values()
	s.clients.Empty()
	s.clients = nil
	s.mu.Unlock()

	for _, c := range clients {
		err = multierr.Append(err, c.Close())
	}
	if errors.Is(err, net.ErrClosed) {
		// Connections closing themselves concurrently are not failures.
		err = multierr.Combine(filterClosed(multierr.Errors(err))...)
	}
	return err
}

func filterClosed(errs []error) []error {
	out := errs[:0]
	for _, err := range errs {
		if !errors.Is(err, net.ErrClosed) {
			out = append(out, err)
		}
	}
	return out
}
