// Package netplay carries the multiplayer game over websockets: the
// authoritative Game rules, the Server hosting them and the Client used by
// the renderer.
package netplay

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/config"
	"github.com/yazgoo/blockish-raycasting/internal/protocol"
	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// PlayerID identifies a connection.
type PlayerID uint64

// Rules are the tunables of a game.
type Rules struct {
	CoinsToWin    int
	GoldCoins     int
	ClientTimeout time.Duration
	TextDuration  time.Duration
}

// DefaultRules returns one coin on the map, a winner every third pickup
// and players forgotten after 20 seconds of silence.
func DefaultRules() Rules {
	return Rules{
		CoinsToWin:    3,
		GoldCoins:     1,
		ClientTimeout: 20 * time.Second,
		TextDuration:  10 * time.Second,
	}
}

// RulesFromConfig reads the rules from the network section.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		CoinsToWin:    cfg.Network.CoinsToWin,
		GoldCoins:     cfg.Network.GoldCoins,
		ClientTimeout: cfg.GetClientTimeout(),
		TextDuration:  cfg.GetTextDuration(),
	}
}

// Delivery is a message addressed to one player or to every player.
type Delivery struct {
	To        PlayerID
	Broadcast bool
	Message   protocol.Message
}

type player struct {
	nickname string
	position protocol.Position
	located  bool
	seen     time.Time
	points   int
}

// Game is the server side state of one level. It is not safe for
// concurrent use.
type Game struct {
	level      *world.Level
	rules      Rules
	rng        *rand.Rand
	players    map[PlayerID]*player
	coins      []protocol.Coin
	coinsFound int
}

// NewGame places the coins on random walkable cells.
func NewGame(level *world.Level, rules Rules, rng *rand.Rand) *Game {
	g := &Game{
		level:   level,
		rules:   rules,
		rng:     rng,
		players: make(map[PlayerID]*player),
	}
	for i := 0; i < rules.GoldCoins; i++ {
		g.coins = append(g.coins, g.randomCoin())
	}
	return g
}

func (g *Game) randomCoin() protocol.Coin {
	x, y, ok := g.level.Grid.RandomEmptyCell(g.rng)
	if !ok {
		return protocol.Coin{X: g.level.Spawn.X, Y: g.level.Spawn.Y}
	}
	return protocol.Coin{X: x, Y: y}
}

// Coins returns the collectible positions.
func (g *Game) Coins() []protocol.Coin {
	return append([]protocol.Coin(nil), g.coins...)
}

// Points returns the score of id.
func (g *Game) Points(id PlayerID) int {
	if p, ok := g.players[id]; ok {
		return p.points
	}
	return 0
}

func (g *Game) text(s string) protocol.Text {
	return protocol.Text{Text: s, Seconds: g.rules.TextDuration.Seconds()}
}

// Join registers id and returns the level snapshot it needs.
func (g *Game) Join(id PlayerID, nickname string, now time.Time) []Delivery {
	g.players[id] = &player{nickname: nickname, seen: now}
	log.WithFields(log.Fields{"player": id, "nickname": nickname}).Info("player joined")

	spawn := g.level.Spawn
	msgs := []protocol.Message{
		protocol.Teleport{Position: protocol.Position{X: spawn.X, Y: spawn.Y, DirX: spawn.DirX, DirY: spawn.DirY}},
		protocol.WorldMap{Rows: g.level.Grid.Rows()},
		protocol.Sprites{Sprites: g.level.Sprites, Lights: g.level.Lights},
		protocol.Textures{
			Archive:        g.level.Textures,
			FloorTexture:   g.level.FloorTexture,
			CeilingTexture: g.level.CeilingTexture,
		},
		protocol.GoldCoins{Coins: g.Coins()},
		protocol.Portals{Portals: g.level.Portals},
		g.text("Hello !"),
	}
	out := make([]Delivery, len(msgs))
	for i, m := range msgs {
		out[i] = Delivery{To: id, Message: m}
	}
	return out
}

// Leave forgets id.
func (g *Game) Leave(id PlayerID) {
	delete(g.players, id)
}

// Move records the position of id, forgets silent players, resolves coin
// pickups and answers with the other players' positions.
func (g *Game) Move(id PlayerID, pos protocol.Position, now time.Time) []Delivery {
	p, ok := g.players[id]
	if !ok {
		return nil
	}
	p.position, p.located, p.seen = pos, true, now

	for other, q := range g.players {
		if q.located && now.Sub(q.seen) > g.rules.ClientTimeout {
			q.located = false
			log.WithFields(log.Fields{"player": other, "nickname": q.nickname}).Info("player timed out")
		}
	}

	out := g.checkCoins()

	others := protocol.Positions{}
	for _, other := range g.sortedIDs() {
		q := g.players[other]
		if other == id || !q.located {
			continue
		}
		others.Players = append(others.Players, protocol.Player{Nickname: q.nickname, Position: q.position})
	}
	return append(out, Delivery{To: id, Message: others})
}

func (g *Game) sortedIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(g.players))
	for id := range g.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *Game) checkCoins() []Delivery {
	var who *player
	for _, id := range g.sortedIDs() {
		p := g.players[id]
		if !p.located {
			continue
		}
		cell := world.CellOf(p.position.X, p.position.Y)
		for i, c := range g.coins {
			if world.CellOf(c.X, c.Y) != cell {
				continue
			}
			g.coins[i] = g.randomCoin()
			p.points++
			who = p
		}
	}
	if who == nil {
		return nil
	}

	var out []Delivery
	g.coinsFound++
	if g.coinsFound >= g.rules.CoinsToWin {
		winner := g.leader()
		out = append(out, Delivery{Broadcast: true, Message: g.text("winner: " + winner.nickname)})
		log.WithField("nickname", winner.nickname).Info("round won")
		for _, p := range g.players {
			p.points = 0
		}
		g.coinsFound = 0
	} else {
		out = append(out, Delivery{Broadcast: true, Message: g.text(fmt.Sprintf("coin %d: %s", g.coinsFound, who.nickname))})
	}
	return append(out, Delivery{Broadcast: true, Message: protocol.GoldCoins{Coins: g.Coins()}})
}

// leader returns the player with the most points, the lowest id on ties.
func (g *Game) leader() *player {
	var best *player
	for _, id := range g.sortedIDs() {
		p := g.players[id]
		if best == nil || p.points > best.points {
			best = p
		}
	}
	return best
}

// Act fires the level actions triggered on the given cell and broadcasts
// the wall grid when it changed.
func (g *Game) Act(id PlayerID, a protocol.Action) []Delivery {
	if _, ok := g.players[id]; !ok {
		return nil
	}
	occupied := func(c world.Cell) bool {
		for _, p := range g.players {
			if p.located && world.CellOf(p.position.X, p.position.Y) == c {
				return true
			}
		}
		return false
	}
	if !g.level.Trigger(a.X, a.Y, occupied) {
		return nil
	}
	log.WithFields(log.Fields{"player": id, "x": a.X, "y": a.Y}).Info("level action changed the map")
	return []Delivery{{Broadcast: true, Message: protocol.WorldMap{Rows: g.level.Grid.Rows()}}}
}
