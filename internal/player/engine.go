// Package player is the local playback engine: one output, a queue,
// shuffle/repeat modes and automatic advancement. It holds its own
// state independently and is driven by whatever arrives from the
// relay; it never talks back to it.
package player

import (
	"math/rand"
	"sync"

	"syncy/internal/domain"
)

type Repeat string

const (
	RepeatOff Repeat = "off"
	RepeatAll Repeat = "all"
	RepeatOne Repeat = "one"
)

// Output is the single audio sink. Implementations own the device;
// the engine only sequences it.
type Output interface {
	Load(url string) // set the source and start playing from zero
	Play()
	Pause()
	Seek(pos float64)
	Stop()
}

// Engine sequences tracks through one Output.
type Engine struct {
	mu sync.Mutex

	out    Output
	source func(string) string // offline resolve hook, may be nil
	rng    *rand.Rand

	queue   []domain.Track
	idx     int
	playing bool
	pos     float64
	shuffle bool
	repeat  Repeat
}

type Option func(*Engine)

// WithSource installs a URL resolver, typically CachedSource, letting
// the engine prefer offline copies.
func WithSource(f func(string) string) Option {
	return func(e *Engine) { e.source = f }
}

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func New(out Output, opts ...Option) *Engine {
	e := &Engine{out: out, repeat: RepeatOff}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) resolve(url string) string {
	if e.source == nil {
		return url
	}
	return e.source(url)
}

func (e *Engine) loadLocked(t domain.Track) {
	if t.URL == "" {
		return
	}
	e.pos = 0
	e.playing = true
	e.out.Load(e.resolve(t.URL))
}

// PlayNow jumps to the track, appending it first if it is not queued.
func (e *Engine) PlayNow(t domain.Track) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, q := range e.queue {
		if q.ID == t.ID {
			e.idx = i
			e.loadLocked(q)
			return
		}
	}
	e.queue = append(e.queue, t)
	e.idx = len(e.queue) - 1
	e.loadLocked(t)
}

// Enqueue appends unless the track is already queued.
func (e *Engine) Enqueue(t domain.Track) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, q := range e.queue {
		if q.ID == t.ID {
			return
		}
	}
	e.queue = append(e.queue, t)
}

// Remove drops the i-th queue entry, correcting the current index so
// the playing track keeps playing where possible.
func (e *Engine) Remove(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.queue) {
		return
	}
	cur := e.idx
	e.queue = append(e.queue[:i], e.queue[i+1:]...)
	switch {
	case i < cur:
		e.idx = cur - 1
	case i == cur:
		if e.idx > len(e.queue)-1 {
			e.idx = len(e.queue) - 1
		}
		if e.idx < 0 {
			e.idx = 0
		}
	}
}

func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.out.Stop()
	e.queue = nil
	e.idx = 0
	e.playing = false
	e.pos = 0
}

func (e *Engine) Current() (domain.Track, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idx < 0 || e.idx >= len(e.queue) {
		return domain.Track{}, false
	}
	return e.queue[e.idx], true
}

func (e *Engine) Queue() []domain.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Track, len(e.queue))
	copy(out, e.queue)
	return out
}

func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

func (e *Engine) SetShuffle(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shuffle = on
}

func (e *Engine) SetRepeat(r Repeat) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repeat = r
}

// TogglePlay pauses when playing, resumes when paused, and is a no-op
// with an empty queue.
func (e *Engine) TogglePlay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idx < 0 || e.idx >= len(e.queue) {
		return
	}
	if e.playing {
		e.playing = false
		e.out.Pause()
		return
	}
	e.playing = true
	e.out.Play()
}

func (e *Engine) Seek(pos float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos = pos
	e.out.Seek(pos)
}

// ReportPosition feeds playback progress back from the output driver.
func (e *Engine) ReportPosition(pos float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos = pos
}

// SkipNext advances one track, or draws a random index in shuffle
// mode; it never runs past the end of the queue.
func (e *Engine) SkipNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return
	}
	if e.shuffle {
		e.idx = e.randIndexLocked()
	} else if e.idx < len(e.queue)-1 {
		e.idx++
	}
	e.loadLocked(e.queue[e.idx])
}

// SkipPrev restarts the current track when more than three seconds in,
// otherwise steps back one.
func (e *Engine) SkipPrev() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pos > 3 {
		e.pos = 0
		e.out.Seek(0)
		return
	}
	if e.idx > 0 {
		e.idx--
	}
	if e.idx < len(e.queue) {
		e.loadLocked(e.queue[e.idx])
	}
}

// OnEnded advances playback when a track finishes: repeat-one
// restarts it, shuffle draws a random successor, the queue's end stops
// playback unless repeat-all wraps around.
func (e *Engine) OnEnded() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		e.playing = false
		return
	}
	if e.repeat == RepeatOne {
		e.pos = 0
		e.out.Seek(0)
		e.out.Play()
		return
	}

	next := e.idx + 1
	if e.shuffle {
		next = e.randIndexLocked()
	}
	if next >= len(e.queue) {
		if e.repeat == RepeatAll {
			e.idx = 0
		} else {
			e.playing = false
			return
		}
	} else {
		e.idx = next
	}
	e.loadLocked(e.queue[e.idx])
}

func (e *Engine) randIndexLocked() int {
	if e.rng != nil {
		return e.rng.Intn(len(e.queue))
	}
	return rand.Intn(len(e.queue))
}
