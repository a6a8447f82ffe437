package kernel

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/UIT-INF-2203/munix-2026/boot"
	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

// fakePort is a minimal serial.Port whose loopback self test always
// succeeds (InByte echoes back whatever OutByte last wrote).
type fakePort struct {
	last    byte
	pending bool
	out     []byte
}

func (p *fakePort) DataReady() bool      { return p.pending }
func (p *fakePort) TransmitEmpty() bool  { return true }
func (p *fakePort) InByte() byte         { p.pending = false; return p.last }
func (p *fakePort) OutByte(b byte)       { p.out = append(p.out, b); p.last = b; p.pending = true }
func (p *fakePort) SetLoopback(on bool)  {}

func pad4(buf *bytes.Buffer) {
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
}

func writeHeader(buf *bytes.Buffer, ino uint32, name string, mode uint32, data []byte) {
	fmt.Fprintf(buf, "070701")
	namesize := uint32(len(name) + 1)
	fields := []uint32{ino, mode, 0, 0, 1, 0, uint32(len(data)), 0, 0, 0, 0, namesize, 0}
	for _, v := range fields {
		fmt.Fprintf(buf, "%08X", v)
	}
	buf.WriteString(name)
	buf.WriteByte(0)
	pad4(buf)
	buf.Write(data)
	pad4(buf)
}

func tinyArchive() []byte {
	var buf bytes.Buffer
	writeHeader(&buf, 0, ".", 0o40000, nil)
	writeHeader(&buf, 1, "./bin", 0o40000, nil)
	writeHeader(&buf, 2, "./bin/hello", 0, []byte("hi"))
	writeHeader(&buf, 3, "TRAILER!!!", 0, nil)
	return buf.Bytes()
}

func TestBootWiresAndMountsRoot(t *testing.T) {
	port := &fakePort{}
	archive := tinyArchive()
	ctx, res := Boot(port, boot.Info{InitrdSize: uintptr(len(archive))}, archive)
	if res != kerrno.OK {
		t.Fatalf("Boot = %v", res)
	}
	if ctx.Mounts == nil || ctx.Console == nil || ctx.Log == nil {
		t.Fatalf("Boot left Context incomplete: %+v", ctx)
	}

	f, res := ctx.Mounts.OpenPath("/", "bin/hello")
	if res != kerrno.OK {
		t.Fatalf("OpenPath(/bin/hello) = %v", res)
	}
	defer f.Close()

	dst := make([]byte, 8)
	n, res := f.Read(dst)
	if res != kerrno.OK || string(dst[:n]) != "hi" {
		t.Fatalf("read bin/hello = (%q, %v), want \"hi\"", dst[:n], res)
	}
}

func TestBootConsoleIsTTYOverSameSerialPort(t *testing.T) {
	port := &fakePort{}
	archive := tinyArchive()
	ctx, res := Boot(port, boot.Info{InitrdSize: uintptr(len(archive))}, archive)
	if res != kerrno.OK {
		t.Fatalf("Boot = %v", res)
	}
	if ctx.Console.Stat.Type != vfs.Chr {
		t.Fatalf("Console.Stat.Type = %v, want CHR", ctx.Console.Stat.Type)
	}
}
