package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/hersh/tetris/internal/game"
)

const (
	sampleRate = beep.SampleRate(44100)
	musicTempo = 144
)

type tone struct {
	freq float64
	dur  time.Duration
}

var tones = map[game.Event]tone{
	game.EventLateral:  {440.00, 40 * time.Millisecond},
	game.EventRotate:   {659.25, 50 * time.Millisecond},
	game.EventDrop:     {220.00, 90 * time.Millisecond},
	game.EventClear:    {880.00, 160 * time.Millisecond},
	game.EventTetris:   {1046.50, 320 * time.Millisecond},
	game.EventLevelUp:  {1318.51, 260 * time.Millisecond},
	game.EventGameOver: {110.00, 700 * time.Millisecond},
	game.EventStart:    {523.25, 150 * time.Millisecond},
	game.EventSelect:   {783.99, 60 * time.Millisecond},
}

type speakerLocker struct{}

func (speakerLocker) Lock()   { speaker.Lock() }
func (speakerLocker) Unlock() { speaker.Unlock() }

// Mixer turns game events into sound. Every method is a no-op until Init
// succeeds, so the game runs unchanged without an audio device.
type Mixer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	device      sync.Locker
	initialized bool
	logger      *slog.Logger
}

// NewMixer creates an uninitialized mixer.
func NewMixer(logger *slog.Logger) *Mixer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mixer{
		mixer:  &beep.Mixer{},
		device: speakerLocker{},
		logger: logger,
	}
}

// Init opens the speaker. Calling it twice is harmless.
func (m *Mixer) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	m.logger.Debug("audio initialized", "sample_rate", int(sampleRate))
	return nil
}

// Dispatch plays every event in order.
func (m *Mixer) Dispatch(events []game.Event) {
	for _, ev := range events {
		m.Play(ev)
	}
}

// Play reacts to a single event.
func (m *Mixer) Play(ev game.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}

	switch ev {
	case game.EventStartMusic:
		m.startMusic()
	case game.EventStopMusic:
		m.stopMusic()
	default:
		t, ok := tones[ev]
		if !ok {
			m.logger.Warn("no sound for event", "event", ev.String())
			return
		}
		m.device.Lock()
		m.mixer.Add(NewToneGenerator(sampleRate, t.freq, t.dur))
		m.device.Unlock()
	}
}

func (m *Mixer) startMusic() {
	m.device.Lock()
	defer m.device.Unlock()

	if m.music == nil {
		m.music = &beep.Ctrl{Streamer: NewMelodyGenerator(sampleRate, musicTempo)}
		m.mixer.Add(m.music)
		return
	}
	m.music.Paused = false
}

func (m *Mixer) stopMusic() {
	if m.music == nil {
		return
	}
	m.device.Lock()
	m.music.Paused = true
	m.device.Unlock()
}

// musicPlaying reports whether the background loop is audible.
func (m *Mixer) musicPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.music != nil && !m.music.Paused
}

// Close silences everything. The mixer can be initialized again afterwards.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.device.Lock()
	m.mixer.Clear()
	m.device.Unlock()
	m.music = nil
	m.initialized = false
}
