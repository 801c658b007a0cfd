package transport

import (
	"io"
	"sync"
	"time"
)

// FakePort replays scripted reads. An empty chunk reads as a timeout; once
// the script runs out Read returns io.EOF.
type FakePort struct {
	mu      sync.Mutex
	chunks  [][]byte
	written [][]byte
	timeout time.Duration
	Closed  bool
}

func NewFakePort(chunks ...[]byte) *FakePort {
	return &FakePort{chunks: chunks}
}

func (p *FakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Closed || len(p.chunks) == 0 {
		return 0, io.EOF
	}
	chunk := p.chunks[0]
	n := copy(b, chunk)
	if n < len(chunk) {
		p.chunks[0] = chunk[n:]
	} else {
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

func (p *FakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = append(p.written, append([]byte(nil), b...))
	return len(b), nil
}

func (p *FakePort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = t
	return nil
}

func (p *FakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Written returns every Write call's bytes.
func (p *FakePort) Written() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.written...)
}
