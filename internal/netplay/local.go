package netplay

import (
	"sync"
	"time"

	"github.com/yazgoo/blockish-raycasting/internal/protocol"
)

// Session is the game's view of a server connection.
type Session interface {
	Send(m protocol.Message) error
	Poll() []protocol.Message
	Close() error
}

var (
	_ Session = (*Client)(nil)
	_ Session = (*Local)(nil)
)

// localID is the only player of a Local session.
const localID PlayerID = 1

// Local runs a Game in process for offline play. Messages the Game
// addresses to the player, broadcasts included, are queued for Poll.
type Local struct {
	mu    sync.Mutex
	game  *Game
	queue []protocol.Message
	now   func() time.Time
}

// NewLocal joins game as nickname.
func NewLocal(game *Game, nickname string) *Local {
	l := &Local{game: game, now: time.Now}
	l.push(game.Join(localID, nickname, l.now()))
	return l
}

func (l *Local) push(out []Delivery) {
	for _, d := range out {
		if d.Broadcast || d.To == localID {
			l.queue = append(l.queue, d.Message)
		}
	}
}

// Send handles m as the server would.
func (l *Local) Send(m protocol.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch m := m.(type) {
	case protocol.Position:
		l.push(l.game.Move(localID, m, l.now()))
	case protocol.Action:
		l.push(l.game.Act(localID, m))
	case protocol.Hello:
		l.push(l.game.Join(localID, m.Nickname, l.now()))
	}
	return nil
}

// Poll returns the queued messages.
func (l *Local) Poll() []protocol.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.queue
	l.queue = nil
	return out
}

// Close leaves the game.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.game.Leave(localID)
	return nil
}
