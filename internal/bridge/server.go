/*
 * Package bridge is the local RPC endpoint a UI process talks to: a
 * WebSocket server speaking JSON frames. Requests execute in arrival
 * order per connection; metadata updates are pushed as they arrive,
 * with stale generations discarded on the server side so a client
 * never sees metadata for results it no longer displays.
 */
package bridge

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xuanyanwow/GoNavi-sub000/internal/database"
	"github.com/xuanyanwow/GoNavi-sub000/internal/logger"
	"github.com/xuanyanwow/GoNavi-sub000/internal/runner"
)

// sendBuffer bounds per-connection outbound frames awaiting the writer.
const sendBuffer = 32

// Server upgrades HTTP requests to WebSocket connections and serves
// the bridge protocol over them. Each connection gets its own session,
// so runs on one connection never interleave with another's; the
// backend itself is shared and safe for concurrent use.
type Server struct {
	backend  database.Backend
	maxRows  int
	timeout  time.Duration
	upgrader websocket.Upgrader
}

// NewServer creates a bridge server over an open backend. maxRows and
// timeout configure the session created for each connection.
func NewServer(backend database.Backend, maxRows int, timeout time.Duration) *Server {
	return &Server{
		backend: backend,
		maxRows: maxRows,
		timeout: timeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// the bridge binds to loopback for a local UI process;
			// there is no cross-origin story to enforce
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP implements http.Handler by upgrading to WebSocket and
// serving frames until the client disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed: %v", err)
		return
	}
	logger.Debug("bridge client connected from %s", r.RemoteAddr)

	c := &conn{
		ws:      ws,
		session: runner.NewSession(s.backend, s.maxRows, s.timeout),
		send:    make(chan *Response, sendBuffer),
		quit:    make(chan struct{}),
	}
	c.serve(r.Context())
	logger.Debug("bridge client %s disconnected", r.RemoteAddr)
}

// conn is one connected client: a reader loop that owns the session, a
// writer loop that serializes outbound frames, and a forwarder that
// relays metadata updates from the session.
type conn struct {
	ws      *websocket.Conn
	session *runner.Session
	send    chan *Response
	quit    chan struct{}

	// generation mirrors the session's latest run so the forwarder,
	// which runs concurrently with the reader, can discard stale
	// updates without touching the session.
	generation atomic.Uint64
}

func (c *conn) serve(ctx context.Context) {
	defer c.ws.Close()

	go c.writeLoop()
	go c.forwardMeta()
	defer close(c.quit)

	for {
		var req Request
		if err := c.ws.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("bridge read error: %v", err)
			}
			return
		}
		c.deliver(c.dispatch(ctx, &req))
	}
}

// deliver queues a frame for the writer, giving up when the connection
// is shutting down.
func (c *conn) deliver(resp *Response) {
	select {
	case c.send <- resp:
	case <-c.quit:
	}
}

func (c *conn) writeLoop() {
	for {
		select {
		case resp := <-c.send:
			if err := c.ws.WriteJSON(resp); err != nil {
				logger.Debug("bridge write error: %v", err)
				return
			}
		case <-c.quit:
			return
		}
	}
}

// forwardMeta pushes successful metadata updates to the client,
// dropping failed fetches and updates from superseded runs so clients
// only ever see metadata for what they are displaying. An update can
// arrive before the reader has recorded its run's generation, which is
// why only strictly older generations are stale.
func (c *conn) forwardMeta() {
	for {
		select {
		case u := <-c.session.MetaUpdates():
			if u.Err != nil || u.Meta == nil || u.Generation < c.generation.Load() {
				continue
			}
			c.deliver(&Response{
				Op:         OpMetaUpdate,
				Generation: u.Generation,
				Index:      u.Index,
				Table:      u.Table,
				Meta:       u.Meta,
			})
		case <-c.quit:
			return
		}
	}
}

// dispatch executes one request and builds its response. Backend and
// session errors pass through as message strings, unclassified.
func (c *conn) dispatch(ctx context.Context, req *Request) *Response {
	resp := &Response{ID: req.ID, Op: req.Op}

	switch req.Op {
	case OpRun:
		outcome := c.session.Run(ctx, req.SQL)
		c.generation.Store(outcome.Generation)
		resp.Generation = outcome.Generation
		resp.Statements = outcome.Statements
		if outcome.Err != nil {
			resp.Error = outcome.Err.Error()
		}

	case OpApply:
		if req.Table == "" || req.Batch == nil {
			resp.Error = "apply requires table and batch"
			break
		}
		affected, err := c.session.ApplyEdits(ctx, req.Table, *req.Batch)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Affected = affected

	case OpMeta:
		if req.Table == "" {
			resp.Error = "meta requires table"
			break
		}
		meta, err := c.session.Backend().TableMeta(ctx, req.Table)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Table = req.Table
		resp.Meta = meta

	default:
		resp.Error = fmt.Sprintf("unknown operation %q", req.Op)
	}
	return resp
}
