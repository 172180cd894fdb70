package protocol

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/yazgoo/blockish-raycasting/internal/world"
)

func TestEncodeDecode(t *testing.T) {
	tests := []Message{
		Hello{Nickname: "alice"},
		Position{X: 20.5, Y: 12, DirX: -1, Speed: 0.2},
		Action{X: 21, Y: 3},
		WorldMap{Rows: [][]world.Material{{1, 1}, {1, 0}, {200, 1}}},
		Portals{Portals: []world.Portal{{ID: 1, X: 10, Y: 10, DestX: 20.5, DestY: 10.1}}},
		Text{Text: "winner: alice", Seconds: 10},
	}
	for _, m := range tests {
		t.Run(string(m.MessageType()), func(t *testing.T) {
			data, err := Encode(m)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, m) {
				t.Errorf("Decode = %#v, want %#v", got, m)
			}
		})
	}
}

func TestWorldMapIsNumberArrays(t *testing.T) {
	data, err := Encode(WorldMap{Rows: [][]world.Material{{8, 0, 8}}})
	if err != nil {
		t.Fatal(err)
	}
	var env struct {
		Type    string `json:"type"`
		Payload struct {
			Rows [][]int `json:"rows"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("%s: %v", data, err)
	}
	if env.Type != "world_map" || !reflect.DeepEqual(env.Payload.Rows, [][]int{{8, 0, 8}}) {
		t.Errorf("wire form = %s", data)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown type", `{"type":"dance","payload":{}}`, ErrUnknownType},
		{"bad envelope", `not json`, nil},
		{"bad payload", `{"type":"hello","payload":[1,2]}`, nil},
		{"material out of range", `{"type":"world_map","payload":{"rows":[[256]]}}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("Decode = %v, want %v", err, tc.want)
			}
			if !strings.HasPrefix(err.Error(), "protocol:") {
				t.Errorf("error %q lacks the package prefix", err)
			}
		})
	}
}
