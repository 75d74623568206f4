// Package ipc exposes a small control surface on a unix socket so the
// companion CLI can query and poke the running daemon. One JSON command
// per connection, one JSON reply back.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"
)

// DefaultSocketPath is where the daemon listens unless told otherwise.
const DefaultSocketPath = "/tmp/solstis.sock"

type Command struct {
	Op string `json:"op"`
}

type Reply struct {
	OK    bool     `json:"ok"`
	Error string   `json:"error,omitempty"`
	State string   `json:"state,omitempty"`
	Items []string `json:"items,omitempty"`
}

// Handler maps a command to its reply; it runs on the connection
// goroutine and must not block.
type Handler func(Command) Reply

type Server struct {
	ln      net.Listener
	handler Handler
	log     *slog.Logger
}

func NewServer(path string, handler Handler, log *slog.Logger) (*Server, error) {
	// A stale socket from a crashed run blocks the bind.
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	return &Server{ln: ln, handler: handler, log: log}, nil
}

// Serve accepts until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	var cmd Command
	if err := json.NewDecoder(conn).Decode(&cmd); err != nil {
		s.log.Warn("bad control command", "err", err)
		return
	}
	reply := s.handler(cmd)
	if err := json.NewEncoder(conn).Encode(reply); err != nil {
		s.log.Warn("control reply failed", "err", err)
	}
}

// Send connects, issues one command, and returns the reply.
func Send(path, op string) (Reply, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return Reply{}, fmt.Errorf("dial %s: %w", path, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if err := json.NewEncoder(conn).Encode(Command{Op: op}); err != nil {
		return Reply{}, fmt.Errorf("send command: %w", err)
	}
	var reply Reply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}
