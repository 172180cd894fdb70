// Package sound plays the short effects fired by game events.
package sound

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	log "github.com/sirupsen/logrus"
)

// SampleRate is the rate every effect is decoded to.
const SampleRate = 44100

// Effect names a sound effect.
type Effect string

const (
	EffectTeleport Effect = "teleport"
	EffectCoin     Effect = "coin"
)

// Bank holds decoded 16-bit stereo PCM clips. A Bank without an audio
// context is muted but still loads clips.
type Bank struct {
	ctx   *audio.Context
	mu    sync.RWMutex
	clips map[Effect][]byte
}

// NewBank creates a bank playing through ctx, which may be nil.
func NewBank(ctx *audio.Context) *Bank {
	return &Bank{ctx: ctx, clips: make(map[Effect][]byte)}
}

// Load decodes the WAV file at path for e. An empty path installs a
// generated tone instead.
func (b *Bank) Load(e Effect, path string) error {
	var pcm []byte
	if path == "" {
		pcm = defaultTone(e)
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read sound %s: %w", path, err)
		}
		if pcm, err = decode(SampleRate, raw); err != nil {
			return fmt.Errorf("decoding %q: %w", path, err)
		}
	}
	b.mu.Lock()
	b.clips[e] = pcm
	b.mu.Unlock()
	return nil
}

// Clip returns the PCM data of e.
func (b *Bank) Clip(e Effect) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	pcm, ok := b.clips[e]
	return pcm, ok
}

// Play starts e and returns immediately.
func (b *Bank) Play(e Effect) {
	pcm, ok := b.Clip(e)
	if !ok || b.ctx == nil {
		return
	}
	player := b.ctx.NewPlayerFromBytes(pcm)
	player.Play()
	log.WithField("effect", e).Debug("sound played")
}

func decode(sampleRate int, raw []byte) ([]byte, error) {
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("wav has no audio data")
	}
	return pcm, nil
}

func defaultTone(e Effect) []byte {
	switch e {
	case EffectTeleport:
		return Tone(220, 880, 300*time.Millisecond)
	default:
		return Tone(988, 1319, 150*time.Millisecond)
	}
}

// Tone synthesizes a sine sweeping from f0 to f1 Hz as 16-bit stereo PCM
// at SampleRate, fading out linearly.
func Tone(f0, f1 float64, d time.Duration) []byte {
	n := int(d.Seconds() * SampleRate)
	pcm := make([]byte, n*4)
	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		phase += 2 * math.Pi * (f0 + (f1-f0)*t) / SampleRate
		v := int16(math.Sin(phase) * (1 - t) * 0.3 * math.MaxInt16)
		binary.LittleEndian.PutUint16(pcm[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(pcm[i*4+2:], uint16(v))
	}
	return pcm
}
