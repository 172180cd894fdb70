// Package protocol defines the JSON messages exchanged over the game
// websocket. Every frame is an Envelope whose Payload is decoded according
// to Type.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// ErrUnknownType is returned when an envelope carries an unknown type.
var ErrUnknownType = errors.New("protocol: unknown message type")

// Type tags an envelope.
type Type string

// Server to client.
const (
	TypePositions Type = "positions"
	TypeWorldMap  Type = "world_map"
	TypeSprites   Type = "sprites"
	TypeTextures  Type = "textures"
	TypeGoldCoins Type = "gold_coins"
	TypeText      Type = "text"
	TypeTeleport  Type = "teleport"
	TypePortals   Type = "portals"
)

// Client to server.
const (
	TypeHello    Type = "hello"
	TypePosition Type = "position"
	TypeAction   Type = "action"
)

// Envelope is the wire frame.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Position is a player pose plus its current speed along the direction.
type Position struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	DirX  float64 `json:"dir_x"`
	DirY  float64 `json:"dir_y"`
	Speed float64 `json:"speed"`
}

// Player is another player's position as seen by the server.
type Player struct {
	Nickname string   `json:"nickname"`
	Position Position `json:"position"`
}

// Positions lists every other connected player.
type Positions struct {
	Players []Player `json:"players"`
}

// WorldMap replaces the wall grid. Rows are indexed [x][y].
type WorldMap struct {
	Rows [][]world.Material `json:"rows"`
}

// MarshalJSON keeps rows as number arrays; []uint8 would otherwise be
// encoded as base64 strings.
func (m WorldMap) MarshalJSON() ([]byte, error) {
	rows := make([][]int, len(m.Rows))
	for x, row := range m.Rows {
		rows[x] = make([]int, len(row))
		for y, v := range row {
			rows[x][y] = int(v)
		}
	}
	return json.Marshal(struct {
		Rows [][]int `json:"rows"`
	}{rows})
}

// UnmarshalJSON reads rows written by MarshalJSON.
func (m *WorldMap) UnmarshalJSON(data []byte) error {
	var raw struct {
		Rows [][]int `json:"rows"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Rows = make([][]world.Material, len(raw.Rows))
	for x, row := range raw.Rows {
		m.Rows[x] = make([]world.Material, len(row))
		for y, v := range row {
			if v < 0 || v > 255 {
				return fmt.Errorf("protocol: material %d at (%d,%d) out of range", v, x, y)
			}
			m.Rows[x][y] = world.Material(v)
		}
	}
	return nil
}

// Sprites replaces the ambient sprites.
type Sprites struct {
	Sprites []world.Sprite `json:"sprites"`
	Lights  []world.Sprite `json:"lights"`
}

// Textures names the wall texture archive and the fixed floor and ceiling
// slots.
type Textures struct {
	Archive        string `json:"archive"`
	FloorTexture   int    `json:"floor_texture"`
	CeilingTexture int    `json:"ceiling_texture"`
}

// Coin is a collectible position.
type Coin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GoldCoins replaces the collectibles.
type GoldCoins struct {
	Coins []Coin `json:"coins"`
}

// Text is shown for Seconds seconds.
type Text struct {
	Text    string  `json:"text"`
	Seconds float64 `json:"seconds"`
}

// Teleport moves the receiving player.
type Teleport struct {
	Position Position `json:"position"`
}

// Portals replaces the level portals.
type Portals struct {
	Portals []world.Portal `json:"portals"`
}

// Hello registers a nickname.
type Hello struct {
	Nickname string `json:"nickname"`
}

// Action is fired by a player standing on cell (X, Y).
type Action struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Message is any payload above.
type Message interface {
	MessageType() Type
}

func (Positions) MessageType() Type { return TypePositions }
func (WorldMap) MessageType() Type  { return TypeWorldMap }
func (Sprites) MessageType() Type   { return TypeSprites }
func (Textures) MessageType() Type  { return TypeTextures }
func (GoldCoins) MessageType() Type { return TypeGoldCoins }
func (Text) MessageType() Type      { return TypeText }
func (Teleport) MessageType() Type  { return TypeTeleport }
func (Portals) MessageType() Type   { return TypePortals }
func (Hello) MessageType() Type     { return TypeHello }
func (Position) MessageType() Type  { return TypePosition }
func (Action) MessageType() Type    { return TypeAction }

// Encode wraps m in an envelope.
func Encode(m Message) ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", m.MessageType(), err)
	}
	return json.Marshal(Envelope{Type: m.MessageType(), Payload: payload})
}

// Decode unwraps an envelope into its typed payload.
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	switch env.Type {
	case TypePositions:
		return decodeAs[Positions](env)
	case TypeWorldMap:
		return decodeAs[WorldMap](env)
	case TypeSprites:
		return decodeAs[Sprites](env)
	case TypeTextures:
		return decodeAs[Textures](env)
	case TypeGoldCoins:
		return decodeAs[GoldCoins](env)
	case TypeText:
		return decodeAs[Text](env)
	case TypeTeleport:
		return decodeAs[Teleport](env)
	case TypePortals:
		return decodeAs[Portals](env)
	case TypeHello:
		return decodeAs[Hello](env)
	case TypePosition:
		return decodeAs[Position](env)
	case TypeAction:
		return decodeAs[Action](env)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, env.Type)
	}
}

func decodeAs[T Message](env Envelope) (Message, error) {
	var m T
	if err := json.Unmarshal(env.Payload, &m); err != nil {
		return nil, fmt.Errorf("protocol: decode %s: %w", env.Type, err)
	}
	return m, nil
}
