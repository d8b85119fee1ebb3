package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// ToneGenerator plays a single decaying square-ish note.
type ToneGenerator struct {
	sr    beep.SampleRate
	freq  float64
	pos   int
	total int
}

// NewToneGenerator creates a tone of the given pitch and length.
func NewToneGenerator(sr beep.SampleRate, freq float64, d time.Duration) *ToneGenerator {
	return &ToneGenerator{sr: sr, freq: freq, total: sr.N(d)}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)
		envelope := 1 - float64(g.pos)/float64(g.total)

		sample := 0.25 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.08 * math.Sin(2*math.Pi*g.freq*3*t)
		sample *= envelope * 0.6

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

type note struct {
	freq  float64 // 0 is a rest
	beats float64
}

// Korobeiniki, first phrase.
var theme = []note{
	{659.25, 1}, {493.88, 0.5}, {523.25, 0.5}, {587.33, 1}, {523.25, 0.5}, {493.88, 0.5},
	{440.00, 1}, {440.00, 0.5}, {523.25, 0.5}, {659.25, 1}, {587.33, 0.5}, {523.25, 0.5},
	{493.88, 1.5}, {523.25, 0.5}, {587.33, 1}, {659.25, 1},
	{523.25, 1}, {440.00, 1}, {440.00, 1}, {0, 1},
}

// MelodyGenerator loops theme forever.
type MelodyGenerator struct {
	sr      beep.SampleRate
	beat    int
	notes   []note
	idx     int
	pos     int
	noteLen int
	clock   int
}

// NewMelodyGenerator creates the background music stream at the given tempo.
func NewMelodyGenerator(sr beep.SampleRate, bpm int) *MelodyGenerator {
	g := &MelodyGenerator{
		sr:    sr,
		beat:  sr.N(time.Minute / time.Duration(bpm)),
		notes: theme,
	}
	g.noteLen = g.length(0)
	return g
}

func (g *MelodyGenerator) length(i int) int {
	return int(float64(g.beat) * g.notes[i].beats)
}

func (g *MelodyGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.noteLen {
			g.idx = (g.idx + 1) % len(g.notes)
			g.pos = 0
			g.noteLen = g.length(g.idx)
		}

		sample := 0.0
		if f := g.notes[g.idx].freq; f > 0 {
			t := float64(g.clock) / float64(g.sr)
			// short release at the end of every note keeps repeats distinct
			envelope := math.Min(1, float64(g.noteLen-g.pos)/float64(g.sr.N(20*time.Millisecond)))
			sample = 0.12 * envelope * math.Sin(2*math.Pi*f*t)
		}

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
		g.clock++
	}
	return len(samples), true
}

func (g *MelodyGenerator) Err() error {
	return nil
}
