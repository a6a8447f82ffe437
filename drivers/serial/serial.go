// Package serial implements munix's UART character device, grounded
// in original_source/src/lib/drivers/chrdev/serial.c. The 8250
// register space is abstracted behind the Port interface so the
// driver is testable without real I/O ports: cmd/munix wires it to
// the host's stdin/stdout, and tests use a scriptable fake.
package serial

import (
	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

// Flag bits, matching devices.h's SRL_ICRNL/SRL_OCRNL.
const (
	ICRNL = 0x0001 // on read, translate incoming \r to \n
	OCRNL = 0x0002 // on write, translate outgoing \n to \r\n
)

// Ioctl commands, matching devices.h's SRL_GETFLAGS/SRL_SETFLAGS.
const (
	GetFlags = iota
	SetFlags
)

// MaxUnits is the number of serial units the driver supports (two
// COM ports, matching original_source's PORT_NOS table).
const MaxUnits = 2

// Port abstracts one UART's register-level behavior so the driver
// logic does not depend on real hardware I/O ports.
type Port interface {
	// DataReady reports whether a received byte is waiting (line
	// status register's Data Ready bit).
	DataReady() bool
	// TransmitEmpty reports whether a byte may be written (line
	// status register's Transmit Holding Register Empty bit).
	TransmitEmpty() bool
	// InByte reads one received byte; only valid after DataReady.
	InByte() byte
	// OutByte writes one byte to the transmit register.
	OutByte(b byte)
	// SetLoopback enables or disables the hardware loopback mode
	// used for the power-on self test.
	SetLoopback(on bool)
}

type unit struct {
	port  Port
	flags uint
	ready bool
}

// Driver is munix's serial character driver, holding up to MaxUnits
// units, each backed by a Port.
type Driver struct {
	units [MaxUnits]*unit
}

// Attach binds a Port as serial unit minor (1-based, matching
// original_source's com_no numbering). Call before the driver is
// registered and opened.
func (d *Driver) Attach(minor uint8, port Port) kerrno.Status {
	if minor < 1 || int(minor) > MaxUnits {
		return kerrno.ENODEV
	}
	d.units[minor-1] = &unit{port: port}
	return kerrno.OK
}

// Ops returns the vfs.FileOps table for this driver, suitable for
// chrdev.Registry.Register.
func (d *Driver) Ops() *vfs.FileOps {
	return &vfs.FileOps{
		Name:     "serial",
		OpenDev:  d.openDev,
		Read:     d.read,
		Write:    d.write,
		Ioctl:    d.ioctl,
		DebugStr: d.debugStr,
	}
}

func (d *Driver) unitFor(minor uint8) *unit {
	if minor < 1 || int(minor) > MaxUnits {
		return nil
	}
	return d.units[minor-1]
}

func (d *Driver) openDev(f *vfs.File, minor uint8) kerrno.Status {
	u := d.unitFor(minor)
	if u == nil || u.port == nil {
		return kerrno.ENODEV
	}
	f.Data = u

	if u.ready {
		return kerrno.OK
	}

	// Power-on self test: put the port in loopback mode, write a
	// sentinel byte, and check it reads back unchanged.
	const sentinel = 0x0a
	u.port.SetLoopback(true)
	u.port.OutByte(sentinel)
	if !u.port.DataReady() || u.port.InByte() != sentinel {
		return kerrno.EIO
	}
	u.port.SetLoopback(false)
	u.ready = true
	return kerrno.OK
}

func ifilter(u *unit, ch byte) byte {
	if u.flags&ICRNL != 0 && ch == '\r' {
		return '\n'
	}
	return ch
}

// oFilterMax is the maximum number of bytes one input byte can expand
// to under OCRNL ('\n' -> "\r\n").
const oFilterMax = 2

func ofilter(u *unit, ch byte) []byte {
	if u.flags&OCRNL != 0 && ch == '\n' {
		return []byte{'\r', ch}
	}
	return []byte{ch}
}

// read is non-blocking: it returns EAGAIN as soon as no more data is
// ready and nothing has been returned yet; otherwise it returns
// whatever was accumulated before the data ran out.
func (d *Driver) read(f *vfs.File, dst []byte, pos *int64) (int, kerrno.Status) {
	u := f.Data.(*unit)
	for n := 0; n < len(dst); n++ {
		if !u.port.DataReady() {
			if n > 0 {
				return n, kerrno.OK
			}
			return 0, kerrno.EAGAIN
		}
		dst[n] = ifilter(u, u.port.InByte())
	}
	return len(dst), kerrno.OK
}

// write busy-waits for the transmit register to be empty before each
// byte; there is no cancellation.
func (d *Driver) write(f *vfs.File, src []byte, pos *int64) (int, kerrno.Status) {
	u := f.Data.(*unit)
	for _, b := range src {
		for _, out := range ofilter(u, b) {
			for !u.port.TransmitEmpty() {
			}
			u.port.OutByte(out)
		}
	}
	return len(src), kerrno.OK
}

func (d *Driver) ioctl(f *vfs.File, cmd uint, arg any) kerrno.Status {
	u := f.Data.(*unit)
	switch cmd {
	case GetFlags:
		out, ok := arg.(*uint)
		if !ok {
			return kerrno.EINVAL
		}
		*out = u.flags
		return kerrno.OK
	case SetFlags:
		flags, ok := arg.(uint)
		if !ok {
			return kerrno.EINVAL
		}
		u.flags = flags
		return kerrno.OK
	default:
		return kerrno.EINVAL
	}
}

func (d *Driver) debugStr(f *vfs.File) string {
	return "serial" + string(rune('0'+f.Stat.RDev.Minor()))
}
