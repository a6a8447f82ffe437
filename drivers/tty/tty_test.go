package tty

import (
	"testing"

	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

// fakePort is an in-memory Port-like *vfs.File stand-in: Read drains a
// byte queue (EAGAIN when empty, unless drained marks true EOF), Write
// records everything sent to it.
type fakePort struct {
	in      []byte
	out     []byte
	realEOF bool
}

func (p *fakePort) ops() *vfs.FileOps {
	return &vfs.FileOps{
		Name: "fakeport",
		Read: func(f *vfs.File, dst []byte, pos *int64) (int, kerrno.Status) {
			if len(p.in) == 0 {
				if p.realEOF {
					return 0, kerrno.OK
				}
				return 0, kerrno.EAGAIN
			}
			n := copy(dst, p.in)
			p.in = p.in[n:]
			return n, kerrno.OK
		},
		Write: func(f *vfs.File, src []byte, pos *int64) (int, kerrno.Status) {
			p.out = append(p.out, src...)
			return len(src), kerrno.OK
		},
	}
}

func newFixture(t *testing.T, flags uint) (*Driver, *vfs.File, *fakePort) {
	t.Helper()
	port := &fakePort{}
	var portFile vfs.File
	if res := vfs.OpenDev(&portFile, port.ops(), 1, vfs.MakeDev(4, 1)); res != kerrno.OK {
		t.Fatalf("port OpenDev = %v", res)
	}

	var d Driver
	if res := d.Attach(1, &portFile); res != kerrno.OK {
		t.Fatalf("Attach = %v", res)
	}
	var f vfs.File
	if res := vfs.OpenDev(&f, d.Ops(), 1, vfs.MakeDev(5, 1)); res != kerrno.OK {
		t.Fatalf("tty OpenDev = %v", res)
	}
	f.Data.(*ttyState).flags = flags
	return &d, &f, port
}

func TestCookedEditingScenario(t *testing.T) {
	_, f, port := newFixture(t, ECHO|COOKED)
	port.in = []byte("ab\b\bcd\n")

	dst := make([]byte, 16)
	n, res := f.Read(dst)
	if res != kerrno.OK {
		t.Fatalf("read = %v", res)
	}
	if string(dst[:n]) != "cd\n" {
		t.Fatalf("read line = %q, want \"cd\\n\"", dst[:n])
	}
	if string(port.out) != "ab\b \b\b \bcd\n" {
		t.Fatalf("echoed bytes = %q, want \"ab\\b \\b\\b \\bcd\\n\"", port.out)
	}
}

func TestBackspaceOnEmptyLineDoesNotEcho(t *testing.T) {
	_, f, port := newFixture(t, ECHO|COOKED)
	port.in = []byte("\b\bx\n")

	dst := make([]byte, 16)
	n, res := f.Read(dst)
	if res != kerrno.OK {
		t.Fatalf("read = %v", res)
	}
	if string(dst[:n]) != "x\n" {
		t.Fatalf("read line = %q, want \"x\\n\"", dst[:n])
	}
	if string(port.out) != "x\n" {
		t.Fatalf("echoed bytes = %q, want \"x\\n\" with no backspace echo for the empty-buffer backspaces", port.out)
	}
}

func TestEOFScenario(t *testing.T) {
	_, f, port := newFixture(t, COOKED)
	port.in = []byte{0x04}

	dst := make([]byte, 16)
	n, res := f.Read(dst)
	if res != kerrno.OK || n != 0 {
		t.Fatalf("read after ^D = (%d, %v), want (0, OK)", n, res)
	}

	n, res = f.Read(dst)
	if res != kerrno.EAGAIN {
		t.Fatalf("subsequent read = (%d, %v), want EAGAIN", n, res)
	}
}

func TestRawModeEchoesImmediately(t *testing.T) {
	_, f, port := newFixture(t, ECHO)
	port.in = []byte("xy")

	dst := make([]byte, 16)
	n, res := f.Read(dst)
	if res != kerrno.OK || string(dst[:n]) != "xy" {
		t.Fatalf("raw read = (%q, %v)", dst[:n], res)
	}
	if string(port.out) != "xy" {
		t.Fatalf("raw echo = %q, want \"xy\"", port.out)
	}
}

func TestCookedModeWithoutNewlineTriesAgain(t *testing.T) {
	_, f, port := newFixture(t, COOKED)
	port.in = []byte("ab")

	dst := make([]byte, 16)
	n, res := f.Read(dst)
	if res != kerrno.EAGAIN || n != 0 {
		t.Fatalf("read without eol = (%d, %v), want (0, EAGAIN)", n, res)
	}
}

func TestEchoCtlCaretNotation(t *testing.T) {
	_, f, port := newFixture(t, ECHO|ECHOCTL)
	port.in = []byte{0x01, 0x7f}

	dst := make([]byte, 16)
	if _, res := f.Read(dst); res != kerrno.OK {
		t.Fatalf("read = %v", res)
	}
	if string(port.out) != "^A^?" {
		t.Fatalf("caret echo = %q, want \"^A^?\"", port.out)
	}
}

func TestPortEOFWithEmptyBufferReturnsZero(t *testing.T) {
	_, f, port := newFixture(t, 0)
	port.realEOF = true

	dst := make([]byte, 4)
	n, res := f.Read(dst)
	if res != kerrno.OK || n != 0 {
		t.Fatalf("port EOF read = (%d, %v), want (0, OK)", n, res)
	}
}

func TestWritePassesThroughToPort(t *testing.T) {
	_, f, port := newFixture(t, 0)
	if _, res := f.Write([]byte("hi")); res != kerrno.OK {
		t.Fatalf("write = %v", res)
	}
	if string(port.out) != "hi" {
		t.Fatalf("port.out = %q, want \"hi\"", port.out)
	}
}

func TestIoctlGetSetFlags(t *testing.T) {
	_, f, _ := newFixture(t, 0)
	if res := f.Ioctl(SetFlags, uint(ECHO|COOKED)); res != kerrno.OK {
		t.Fatalf("set flags = %v", res)
	}
	var got uint
	if res := f.Ioctl(GetFlags, &got); res != kerrno.OK {
		t.Fatalf("get flags = %v", res)
	}
	if got != ECHO|COOKED {
		t.Fatalf("got flags = %#x, want %#x", got, ECHO|COOKED)
	}
}

func TestAttachOutOfRangeMinor(t *testing.T) {
	var d Driver
	var port vfs.File
	if res := d.Attach(0, &port); res != kerrno.ENODEV {
		t.Fatalf("Attach minor 0 = %v, want ENODEV", res)
	}
	if res := d.Attach(MaxTTYs+1, &port); res != kerrno.ENODEV {
		t.Fatalf("Attach minor out of range = %v, want ENODEV", res)
	}
}

func TestOpenDevMinorZeroReserved(t *testing.T) {
	var d Driver
	var f vfs.File
	if res := vfs.OpenDev(&f, d.Ops(), 0, vfs.MakeDev(5, 0)); res != kerrno.ENODEV {
		t.Fatalf("OpenDev minor 0 = %v, want ENODEV", res)
	}
}
