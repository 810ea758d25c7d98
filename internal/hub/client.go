package hub

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	// ErrClientClosed is returned when sending to a closed client.
	ErrClientClosed = errors.New("client is closed")

	// ErrSendBufferFull is returned when a client's outbound queue is full.
	// The client is closed as a side effect, since a backed-up queue means
	// the peer has stopped draining.
	ErrSendBufferFull = errors.New("client send buffer full")
)

// Client represents one live WebSocket connection, optionally bound to an
// agent identity. AgentID is 0 for anonymous sessions.
type Client struct {
	id      string
	conn    *websocket.Conn
	agentID int64
	send    chan []byte
	mu      sync.Mutex
	closed  bool
}

func newClient(conn *websocket.Conn, agentID int64) *Client {
	return &Client{
		id:      uuid.New().String(),
		conn:    conn,
		agentID: agentID,
		send:    make(chan []byte, 256),
	}
}

// Send queues data for delivery to the client. It never blocks: a closed
// client or a full queue is reported as an error outcome for the caller to
// act on.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.closeLocked()
		return ErrSendBufferFull
	}
}

// Close closes the client's outbound queue. Safe to call multiple times.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// IsClosed returns true if the client is closed.
func (c *Client) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// ID returns the unique connection ID for this client.
func (c *Client) ID() string {
	return c.id
}

// AgentID returns the agent bound to this client, or 0 if anonymous.
func (c *Client) AgentID() int64 {
	return c.agentID
}

// Conn returns the underlying WebSocket connection.
func (c *Client) Conn() *websocket.Conn {
	return c.conn
}

// SendChan returns the outbound queue for the client.
func (c *Client) SendChan() <-chan []byte {
	return c.send
}
