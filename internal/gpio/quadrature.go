package gpio

import (
	"sync"
	"sync/atomic"
)

type Channel int

const (
	ChannelA Channel = iota
	ChannelB
)

// transitions maps (previous AB << 2 | current AB) to a count. Invalid double
// steps count as zero.
var transitions = [16]int{
	0, -1, 1, 0,
	1, 0, 0, -1,
	-1, 0, 0, 1,
	0, 1, -1, 0,
}

// Quadrature decodes A/B edges into a signed count. It implements
// input.Encoder.
type Quadrature struct {
	mu    sync.Mutex
	a, b  int
	state int

	count atomic.Int64
}

func NewQuadrature() *Quadrature {
	return &Quadrature{}
}

// Seed sets the line levels read when the lines were requested.
func (q *Quadrature) Seed(a, b int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.a, q.b = a&1, b&1
	q.state = q.a<<1 | q.b
}

// Edge records a new level on one channel.
func (q *Quadrature) Edge(ch Channel, level int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if ch == ChannelA {
		q.a = level & 1
	} else {
		q.b = level & 1
	}
	next := q.a<<1 | q.b
	if d := transitions[q.state<<2|next]; d != 0 {
		q.count.Add(int64(d))
	}
	q.state = next
}

func (q *Quadrature) Read() int {
	return int(q.count.Load())
}

func (q *Quadrature) Reset() {
	q.count.Store(0)
}
