package audio

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/hersh/tetris/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMixer behaves as if Init had succeeded without touching a device.
func testMixer() *Mixer {
	m := NewMixer(nil)
	m.device = &sync.Mutex{}
	m.initialized = true
	return m
}

func peak(samples [][2]float64) float64 {
	p := 0.0
	for _, s := range samples {
		p = math.Max(p, math.Abs(s[0]))
	}
	return p
}

func TestMixerWithoutInitIsSilent(t *testing.T) {
	m := NewMixer(nil)

	assert.NotPanics(t, func() {
		m.Dispatch([]game.Event{game.EventStart, game.EventStartMusic, game.EventDrop})
		m.Play(game.EventStopMusic)
		m.Close()
	})
	assert.False(t, m.musicPlaying())
}

func TestMixerPlaysTones(t *testing.T) {
	m := testMixer()
	m.Play(game.EventDrop)

	buf := make([][2]float64, 512)
	m.mixer.Stream(buf)
	assert.Greater(t, peak(buf), 0.0)
}

func TestMixerMusicPausesAndResumes(t *testing.T) {
	m := testMixer()

	m.Play(game.EventStartMusic)
	require.True(t, m.musicPlaying())
	loop := m.music

	m.Play(game.EventStopMusic)
	assert.False(t, m.musicPlaying())

	m.Play(game.EventStartMusic)
	assert.True(t, m.musicPlaying())
	assert.Same(t, loop, m.music, "resuming reuses the loop")

	m.Close()
	assert.False(t, m.musicPlaying())
	assert.False(t, m.initialized)
}

func TestEveryEventHasASound(t *testing.T) {
	freqs := map[float64]game.Event{}
	for ev := game.Event(0); ev < game.EventStartMusic; ev++ {
		tn, ok := tones[ev]
		require.True(t, ok, "missing tone for %s", ev)
		prev, dup := freqs[tn.freq]
		assert.False(t, dup, "%s and %s share a pitch", ev, prev)
		freqs[tn.freq] = ev
	}
}

func TestToneGeneratorEnds(t *testing.T) {
	g := NewToneGenerator(sampleRate, 440, 10*time.Millisecond)
	want := sampleRate.N(10 * time.Millisecond)

	total := 0
	buf := make([][2]float64, 128)
	for {
		n, ok := g.Stream(buf)
		if !ok {
			break
		}
		for _, s := range buf[:n] {
			assert.LessOrEqual(t, math.Abs(s[0]), 1.0)
			assert.Equal(t, s[0], s[1])
		}
		total += n
	}
	assert.Equal(t, want, total)
	assert.NoError(t, g.Err())
}

func TestMelodyGeneratorLoops(t *testing.T) {
	g := NewMelodyGenerator(sampleRate, 600)

	// a few passes over the whole theme
	buf := make([][2]float64, sampleRate.N(time.Second))
	for i := 0; i < 5; i++ {
		n, ok := g.Stream(buf)
		require.True(t, ok)
		require.Equal(t, len(buf), n)
		assert.Greater(t, peak(buf), 0.0)
		assert.LessOrEqual(t, peak(buf), 1.0)
	}
	assert.NoError(t, g.Err())
}
