package netplay

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/protocol"
)

const sendQueue = 32

// Server hosts one Game for every websocket connection.
type Server struct {
	Upgrader *websocket.Upgrader

	mu    sync.Mutex
	game  *Game
	conns map[PlayerID]*session
	now   func() time.Time

	nextID atomic.Uint64
}

type session struct {
	id   PlayerID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// NewServer wraps game.
func NewServer(game *Game) *Server {
	return &Server{
		Upgrader: &websocket.Upgrader{},
		game:     game,
		conns:    make(map[PlayerID]*session),
		now:      time.Now,
	}
}

// HandleHttpCall upgrades the request and serves the player until the
// connection drops.
func (s *Server) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("HandleHttpCall websocket upgrade err %v", err)
			return
		}
		ps := &session{
			id:   PlayerID(s.nextID.Add(1)),
			conn: conn,
			send: make(chan []byte, sendQueue),
			done: make(chan struct{}),
		}
		s.mu.Lock()
		s.conns[ps.id] = ps
		s.mu.Unlock()
		log.WithFields(log.Fields{"player": ps.id, "remote": r.RemoteAddr}).Info("connection opened")

		go s.loopWrite(ps)
		s.loopRead(ps)

		s.mu.Lock()
		delete(s.conns, ps.id)
		s.game.Leave(ps.id)
		s.mu.Unlock()
		close(ps.done)
		conn.Close()
		log.WithField("player", ps.id).Info("connection closed")
	}
}

func (s *Server) loopRead(ps *session) {
	for {
		_, data, err := ps.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithField("player", ps.id).Warnf("read err %v", err)
			}
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			log.WithField("player", ps.id).Warnf("cant decode: %v", err)
			continue
		}
		s.handle(ps.id, msg)
	}
}

func (s *Server) handle(id PlayerID, msg protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var out []Delivery
	switch m := msg.(type) {
	case protocol.Hello:
		out = s.game.Join(id, m.Nickname, now)
	case protocol.Position:
		out = s.game.Move(id, m, now)
	case protocol.Action:
		out = s.game.Act(id, m)
	default:
		log.WithFields(log.Fields{"player": id, "type": msg.MessageType()}).Warn("unexpected client message")
	}
	for _, d := range out {
		s.deliver(d)
	}
}

// deliver queues d; s.mu must be held.
func (s *Server) deliver(d Delivery) {
	data, err := protocol.Encode(d.Message)
	if err != nil {
		log.Errorf("deliver: %v", err)
		return
	}
	if !d.Broadcast {
		if ps, ok := s.conns[d.To]; ok {
			s.enqueue(ps, data)
		}
		return
	}
	for _, ps := range s.conns {
		s.enqueue(ps, data)
	}
}

func (s *Server) enqueue(ps *session, data []byte) {
	select {
	case ps.send <- data:
	default:
		log.WithField("player", ps.id).Warn("send queue full, dropping message")
	}
}

func (s *Server) loopWrite(ps *session) {
	for {
		select {
		case data := <-ps.send:
			if err := ps.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.WithField("player", ps.id).Warnf("write err %v", err)
				ps.conn.Close()
				return
			}
		case <-ps.done:
			return
		}
	}
}

// Players returns the number of open connections.
func (s *Server) Players() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}
