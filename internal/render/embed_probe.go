// Package render turns resolved media into page markup.
package render

import (
	"context"
	"sync"
)

type ProbeState int

const (
	ProbePending ProbeState = iota
	ProbeAccessible
	ProbeInaccessible
)

func (s ProbeState) String() string {
	switch s {
	case ProbeAccessible:
		return "accessible"
	case ProbeInaccessible:
		return "inaccessible"
	}
	return "pending"
}

// EmbedProbe checks once, in the background, whether an embed that gives
// no load-failure signal of its own is actually reachable. It moves from
// pending to accessible or inaccessible exactly once and never retries.
type EmbedProbe struct {
	mu    sync.Mutex
	once  sync.Once
	state ProbeState
	done  chan struct{}
}

func NewEmbedProbe() *EmbedProbe {
	return &EmbedProbe{done: make(chan struct{})}
}

// Start runs check in its own goroutine. Later calls are ignored. A panic in
// check counts as inaccessible.
func (p *EmbedProbe) Start(ctx context.Context, check func(context.Context) bool) {
	p.once.Do(func() {
		go func() {
			ok := false
			defer func() {
				recover()
				p.resolve(ok)
			}()
			ok = check(ctx)
		}()
	})
}

func (p *EmbedProbe) resolve(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != ProbePending {
		return
	}
	if ok {
		p.state = ProbeAccessible
	} else {
		p.state = ProbeInaccessible
	}
	close(p.done)
}

func (p *EmbedProbe) State() ProbeState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Done is closed once the probe has resolved.
func (p *EmbedProbe) Done() <-chan struct{} {
	return p.done
}
