package spectate

import (
	"sort"
	"sync"
	"time"
)

// Viewer is one connected spectator.
type Viewer struct {
	ID        string
	Name      string
	Connected time.Time
	sendCh    chan []byte
}

// Registry tracks connected viewers. Sends and removals are serialized so a
// viewer's channel is never written after it is closed.
type Registry struct {
	mu      sync.RWMutex
	viewers map[string]*Viewer
}

func NewRegistry() *Registry {
	return &Registry{
		viewers: make(map[string]*Viewer),
	}
}

func (r *Registry) Add(v *Viewer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewers[v.ID] = v
}

// Remove drops the viewer and closes its send channel.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.viewers[id]; ok {
		close(v.sendCh)
		delete(r.viewers, id)
	}
}

func (r *Registry) SetName(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.viewers[id]; ok {
		v.Name = name
	}
}

// Names returns the display names of all viewers, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.viewers))
	for _, v := range r.viewers {
		names = append(names, v.Name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.viewers)
}

// Broadcast queues msg for every viewer and returns how many viewers had a
// full buffer and missed it.
func (r *Registry) Broadcast(msg []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dropped := 0
	for _, v := range r.viewers {
		select {
		case v.sendCh <- msg:
		default:
			dropped++
		}
	}
	return dropped
}
