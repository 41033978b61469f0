//go:build linux

package kairos

import (
	"context"
	"sync"
	"time"
)

// fakeExec records every snippet and answers with reply.
type fakeExec struct {
	mu     sync.Mutex
	code   []string
	reply  func(code string) (string, error)
	closed bool
}

func (f *fakeExec) Exec(ctx context.Context, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code = append(f.code, code)
	if f.reply == nil {
		return "", nil
	}
	return f.reply(code)
}

func (f *fakeExec) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeExec) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.code) == 0 {
		return ""
	}
	return f.code[len(f.code)-1]
}

func replyWith(out string) func(string) (string, error) {
	return func(string) (string, error) { return out, nil }
}

// fakePort emulates the CircuitPython raw REPL on the device side.
type fakePort struct {
	mu      sync.Mutex
	silent  bool
	inRaw   bool
	code    []byte
	pending []byte
	execs   []string
	respond func(code string) (stdout, stderr string)
	closed  bool

	// holdNext keeps the next reply back until the host writes again,
	// as a board still busy past the read timeout would.
	holdNext bool
	held     []byte
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, p.held...)
	p.held = nil
	for _, c := range b {
		switch {
		case c == ctrlA:
			p.inRaw = true
			p.code = nil
			if !p.silent {
				p.pending = append(p.pending, "\r\n"+rawREPLBanner...)
			}
		case !p.inRaw:
		case c == ctrlB:
			p.inRaw = false
			p.code = nil
		case c == ctrlC:
			p.code = nil
		case c == ctrlD:
			code := string(p.code)
			p.code = nil
			p.execs = append(p.execs, code)
			var stdout, stderr string
			if p.respond != nil {
				stdout, stderr = p.respond(code)
			}
			reply := execAck + stdout + endOfOutput + stderr + endOfOutput + ">"
			if p.holdNext {
				p.holdNext = false
				p.held = append(p.held, reply...)
				continue
			}
			p.pending = append(p.pending, reply...)
		default:
			p.code = append(p.code, c)
		}
	}
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		time.Sleep(time.Millisecond)
		p.mu.Lock()
		return 0, nil
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	return nil
}
