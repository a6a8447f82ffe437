// Package tty implements munix's line discipline, grounded in
// original_source/src/lib/drivers/chrdev/tty.c. A TTY
// wraps another character device (its port device, always a serial
// port in this design) and layers cooked-mode editing, echo, and a
// 256-byte input line buffer on top of it.
package tty

import (
	"fmt"

	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

// Flag bits, matching devices.h's TTY_ECHO/TTY_ECHOCTL/TTY_COOKED.
const (
	ECHO    = 0x0001 // echo input bytes to the port
	ECHOCTL = 0x0002 // echo non-printables in caret notation
	COOKED  = 0x0004 // line-buffered editing mode
)

// Ioctl commands, matching devices.h's TTY_GETFLAGS/TTY_SETFLAGS.
const (
	GetFlags = iota
	SetFlags
)

// MaxTTYs bounds the number of TTY instances, matching
// original_source's TTY_NOS.
const MaxTTYs = 2

// ibufSize is the input line buffer's capacity, matching
// original_source's TTY_IBUF_SIZE.
const ibufSize = 256

type ttyState struct {
	port  *vfs.File
	flags uint

	ibuf [ibufSize]byte
	ilen int
	eol  bool
	eof  bool
}

// Driver is munix's TTY line-discipline driver, holding up to MaxTTYs
// instances, each attached to a port device.
type Driver struct {
	ttys [MaxTTYs]*ttyState
}

// Attach binds port as TTY unit minor (1-based; minor 0 is reserved
// for a future console device and not implemented).
func (d *Driver) Attach(minor uint8, port *vfs.File) kerrno.Status {
	if minor < 1 || int(minor) > MaxTTYs {
		return kerrno.ENODEV
	}
	d.ttys[minor-1] = &ttyState{port: port}
	return kerrno.OK
}

// Ops returns the vfs.FileOps table for this driver, suitable for
// chrdev.Registry.Register.
func (d *Driver) Ops() *vfs.FileOps {
	return &vfs.FileOps{
		Name:    "tty",
		OpenDev: d.openDev,
		Read:    d.read,
		Write:   d.write,
		Ioctl:   d.ioctl,
	}
}

func (d *Driver) ttyFor(minor uint8) *ttyState {
	if minor < 1 || int(minor) > MaxTTYs {
		return nil
	}
	return d.ttys[minor-1]
}

func (d *Driver) openDev(f *vfs.File, minor uint8) kerrno.Status {
	if minor == 0 {
		return kerrno.ENODEV
	}
	t := d.ttyFor(minor)
	if t == nil || t.port == nil {
		return kerrno.ENODEV
	}
	f.Data = t
	return kerrno.OK
}

// echo writes raw bytes to the port if ECHO is set.
func (t *ttyState) echo(s []byte) {
	if t.flags&ECHO == 0 {
		return
	}
	t.port.Write(s)
}

// echoByte writes one input byte to the port per the ECHOCTL rules:
// tab/newline/carriage-return pass verbatim, other control bytes
// (0x00-0x1f, 0x7f) render in caret notation, everything else passes
// through unless ECHOCTL renders it as \xNN.
func (t *ttyState) echoByte(ch byte) {
	if t.flags&ECHO == 0 {
		return
	}
	if t.flags&ECHOCTL == 0 {
		t.port.Write([]byte{ch})
		return
	}
	switch {
	case ch == '\t' || ch == '\n' || ch == '\r':
		t.port.Write([]byte{ch})
	case ch < 0x20:
		t.port.Write([]byte{'^', ch + '@'})
	case ch == 0x7f:
		t.port.Write([]byte{'^', '?'})
	case ch >= 0x20 && ch < 0x7f:
		t.port.Write([]byte{ch})
	default:
		t.port.Write([]byte(fmt.Sprintf("\\x%02x", ch)))
	}
}

func (t *ttyState) backspace() {
	if t.ilen == 0 {
		return
	}
	t.ilen--
	t.echo([]byte("\b \b"))
}

// feed processes one byte received from the port, applying raw
// append or cooked-mode special-character handling. Returns ENOBUFS
// when there is no room to accept the byte.
func (t *ttyState) feed(ch byte) kerrno.Status {
	if t.flags&COOKED == 0 {
		if t.ilen >= ibufSize {
			return kerrno.ENOBUFS
		}
		t.ibuf[t.ilen] = ch
		t.ilen++
		t.echoByte(ch)
		return kerrno.OK
	}

	if t.eol {
		return kerrno.ENOBUFS
	}

	switch {
	case ch == '\n':
		t.echo([]byte{'\n'})
		if t.ilen < ibufSize {
			t.ibuf[t.ilen] = ch
			t.ilen++
		}
		t.eol = true
		return kerrno.OK

	case ch == 0x04: // ^D
		t.echo([]byte("^D\n"))
		t.eol = true
		if t.ilen == 0 {
			t.eof = true
		}
		return kerrno.OK

	case ch == '\b' || ch == 0x7f:
		t.backspace()
		return kerrno.OK

	case ch == 0x15: // ^U
		for t.ilen > 0 {
			t.backspace()
		}
		return kerrno.OK

	default:
		if t.ilen >= ibufSize {
			return kerrno.ENOBUFS
		}
		t.ibuf[t.ilen] = ch
		t.ilen++
		t.echoByte(ch)
		return kerrno.OK
	}
}

// pullFromPort implements read step 1: pull bytes from the port until
// ibuf is full, eol is set, or the port yields 0 or try-again.
func (t *ttyState) pullFromPort() (portEOF bool, tryAgain bool) {
	one := make([]byte, 1)
	for {
		if t.flags&COOKED == 0 && t.ilen >= ibufSize {
			return false, false
		}
		if t.flags&COOKED != 0 && t.eol {
			return false, false
		}
		n, res := t.port.Read(one)
		if res == kerrno.EAGAIN {
			return false, true
		}
		if !res.Ok() {
			return false, true
		}
		if n == 0 {
			return true, false
		}
		if res := t.feed(one[0]); !res.Ok() {
			return false, false
		}
	}
}

func (d *Driver) read(f *vfs.File, dst []byte, pos *int64) (int, kerrno.Status) {
	t := f.Data.(*ttyState)

	portEOF, tryAgain := t.pullFromPort()

	if t.ilen == 0 {
		if portEOF {
			return 0, kerrno.OK
		}
		if t.flags&COOKED != 0 && t.eof {
			t.eof = false
			t.eol = false
			return 0, kerrno.OK
		}
		if tryAgain {
			return 0, kerrno.EAGAIN
		}
		return 0, kerrno.EAGAIN
	}

	if t.flags&COOKED != 0 && !t.eol {
		return 0, kerrno.EAGAIN
	}

	n := t.ilen
	if n > len(dst) {
		n = len(dst)
	}
	copy(dst[:n], t.ibuf[:n])
	remain := t.ilen - n
	copy(t.ibuf[:remain], t.ibuf[n:t.ilen])
	t.ilen = remain
	if t.ilen == 0 {
		t.eol = false
	}
	return n, kerrno.OK
}

func (d *Driver) write(f *vfs.File, src []byte, pos *int64) (int, kerrno.Status) {
	t := f.Data.(*ttyState)
	return t.port.Write(src)
}

func (d *Driver) ioctl(f *vfs.File, cmd uint, arg any) kerrno.Status {
	t := f.Data.(*ttyState)
	switch cmd {
	case GetFlags:
		out, ok := arg.(*uint)
		if !ok {
			return kerrno.EINVAL
		}
		*out = t.flags
		return kerrno.OK
	case SetFlags:
		flags, ok := arg.(uint)
		if !ok {
			return kerrno.EINVAL
		}
		t.flags = flags
		return kerrno.OK
	default:
		return kerrno.EINVAL
	}
}
