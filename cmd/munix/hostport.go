package main

import (
	"io"
	"sync"
)

// hostPort adapts a host io.Reader/io.Writer pair (ordinarily
// os.Stdin/os.Stdout) to serial.Port, the way other_examples'
// Daedaluz-goserial wraps a real tty device file descriptor — except
// here the "wire" is the controlling terminal munix was launched
// under. Loopback mode is modeled the way real UART hardware loopback
// works: while enabled, OutByte's bytes are redirected straight back
// to the receive side instead of reaching the host, so the serial
// driver's power-on self test never writes garbage to the user's
// screen.
type hostPort struct {
	out io.Writer

	mu       sync.Mutex
	rx       []byte
	loopback bool
	loopRx   []byte
}

// newHostPort starts a background reader draining r one chunk at a
// time into an internal queue, so DataReady/InByte can be polled
// non-blockingly the way serial.Driver.read expects.
func newHostPort(r io.Reader, w io.Writer) *hostPort {
	p := &hostPort{out: w}
	go p.pump(r)
	return p
}

func (p *hostPort) pump(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			p.mu.Lock()
			p.rx = append(p.rx, buf[:n]...)
			p.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (p *hostPort) DataReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loopback {
		return len(p.loopRx) > 0
	}
	return len(p.rx) > 0
}

func (p *hostPort) TransmitEmpty() bool { return true }

func (p *hostPort) InByte() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loopback {
		b := p.loopRx[0]
		p.loopRx = p.loopRx[1:]
		return b
	}
	b := p.rx[0]
	p.rx = p.rx[1:]
	return b
}

func (p *hostPort) OutByte(b byte) {
	p.mu.Lock()
	loop := p.loopback
	if loop {
		p.loopRx = append(p.loopRx, b)
	}
	p.mu.Unlock()
	if !loop {
		p.out.Write([]byte{b})
	}
}

func (p *hostPort) SetLoopback(on bool) {
	p.mu.Lock()
	p.loopback = on
	if !on {
		p.loopRx = nil
	}
	p.mu.Unlock()
}
