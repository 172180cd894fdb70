package netplay

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/protocol"
)

const receiveQueue = 256

// Client is a player connection. Messages read from the server are queued
// until the game loop polls them.
type Client struct {
	conn     *websocket.Conn
	incoming chan protocol.Message

	// done is closed by Close; readDone when loopRead has returned.
	done      chan struct{}
	readDone  chan struct{}
	closeOnce sync.Once
	closeErr  error

	writeMu sync.Mutex

	errMu sync.Mutex
	err   error
}

// Dial connects to url and introduces the player.
func Dial(ctx context.Context, url, nickname string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	c := &Client{
		conn:     conn,
		incoming: make(chan protocol.Message, receiveQueue),
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
	if err := c.Send(protocol.Hello{Nickname: nickname}); err != nil {
		conn.Close()
		return nil, err
	}
	go c.loopRead()
	log.WithFields(log.Fields{"url": url, "nickname": nickname}).Info("connected")
	return c, nil
}

func (c *Client) loopRead() {
	defer close(c.readDone)
	defer close(c.incoming)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.setErr(err)
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			log.Warnf("cant decode server message: %v", err)
			continue
		}
		select {
		case c.incoming <- msg:
		case <-c.done:
			return
		}
	}
}

func (c *Client) setErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Send writes one message.
func (c *Client) Send(m protocol.Message) error {
	data, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Messages returns the queue of received messages. It is closed when the
// connection ends.
func (c *Client) Messages() <-chan protocol.Message {
	return c.incoming
}

// Poll drains the messages received so far without blocking.
func (c *Client) Poll() []protocol.Message {
	var out []protocol.Message
	for {
		select {
		case m, ok := <-c.incoming:
			if !ok {
				return out
			}
			out = append(out, m)
		default:
			return out
		}
	}
}

// Close sends a close frame, closes the connection and waits for the read
// loop to stop. Later calls return the first result.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		werr := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		cerr := c.conn.Close()
		<-c.readDone

		switch {
		case werr != nil:
			c.closeErr = fmt.Errorf("failed to send close frame: %w", werr)
		case cerr != nil:
			c.closeErr = fmt.Errorf("failed to close connection: %w", cerr)
		}
	})
	return c.closeErr
}
