package nameparse

import (
	"runtime"
)

// Pool provides a pool of Parser instances for concurrent parsing.
// Parsers are not safe for concurrent use on their own; the pool
// hands one parser to one goroutine at a time.
type Pool struct {
	ch       chan *Parser
	poolSize int
}

// NewPool creates a parser pool with the specified number of parsers.
// If size is 0, it defaults to runtime.NumCPU().
func NewPool(size int) *Pool {
	if size == 0 {
		size = runtime.NumCPU()
	}

	ch := make(chan *Parser, size)
	for range size {
		ch <- New()
	}

	return &Pool{ch: ch, poolSize: size}
}

// Parse parses a name using a parser from the pool. It blocks when
// all parsers are busy. Safe for concurrent use.
func (p *Pool) Parse(name string, opts ...Option) (Parsed, error) {
	parser := <-p.ch
	res, err := parser.Parse(name, opts...)
	p.ch <- parser
	return res, err
}

// Close shuts down the pool and releases its parsers.
func (p *Pool) Close() {
	if p.ch == nil {
		return
	}
	close(p.ch)
	for range p.ch {
	}
	p.ch = nil
}
