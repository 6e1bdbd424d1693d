package bufferpool

import "sync"

const (
	SmallSize  = 4 << 10
	MediumSize = 32 << 10
	LargeSize  = 128 << 10
)

// Pool hands out reusable read buffers in three size classes
type Pool struct {
	small  sync.Pool
	medium sync.Pool
	large  sync.Pool
}

func newClass(size int) sync.Pool {
	return sync.Pool{
		New: func() any {
			buf := make([]byte, size)
			return &buf
		},
	}
}

func New() *Pool {
	return &Pool{
		small:  newClass(SmallSize),
		medium: newClass(MediumSize),
		large:  newClass(LargeSize),
	}
}

var defaultPool = New()

// Get returns a buffer of exactly size bytes. Requests above LargeSize are
// allocated directly and will not be pooled on Put.
func (p *Pool) Get(size int) []byte {
	switch {
	case size <= SmallSize:
		buf := p.small.Get().(*[]byte)
		return (*buf)[:size]
	case size <= MediumSize:
		buf := p.medium.Get().(*[]byte)
		return (*buf)[:size]
	case size <= LargeSize:
		buf := p.large.Get().(*[]byte)
		return (*buf)[:size]
	default:
		return make([]byte, size)
	}
}

// Put returns a buffer obtained from Get. Buffers of a foreign capacity are
// left to the GC.
func (p *Pool) Put(buf []byte) {
	switch cap(buf) {
	case SmallSize:
		full := buf[:SmallSize]
		p.small.Put(&full)
	case MediumSize:
		full := buf[:MediumSize]
		p.medium.Put(&full)
	case LargeSize:
		full := buf[:LargeSize]
		p.large.Put(&full)
	}
}

func Get(size int) []byte {
	return defaultPool.Get(size)
}

func Put(buf []byte) {
	defaultPool.Put(buf)
}
