package vfs

import (
	"testing"

	"github.com/UIT-INF-2203/munix-2026/kerrno"
)

func TestDevNumPacking(t *testing.T) {
	d := MakeDev(3, 7)
	if d.Major() != 3 || d.Minor() != 7 {
		t.Fatalf("MakeDev(3,7) = %v, got major=%d minor=%d", d, d.Major(), d.Minor())
	}
}

func TestAbsentOpIsNotSupported(t *testing.T) {
	f := &File{Op: &FileOps{Name: "nil-ops"}}
	if _, res := f.Read(make([]byte, 4)); res != kerrno.EINVAL {
		t.Errorf("Read with nil op = %v, want EINVAL", res)
	}
	if _, res := f.Write([]byte("x")); res != kerrno.EINVAL {
		t.Errorf("Write with nil op = %v, want EINVAL", res)
	}
	if res := f.Ioctl(0, 0); res != kerrno.EINVAL {
		t.Errorf("Ioctl with nil op = %v, want EINVAL", res)
	}
	var d Dirent
	if _, res := f.Readdir(&d); res != kerrno.EINVAL {
		t.Errorf("Readdir with nil op = %v, want EINVAL", res)
	}
}

func TestCloseWithNilOpsIsNoop(t *testing.T) {
	f := &File{}
	if res := f.Close(); res != kerrno.OK {
		t.Fatalf("Close on unopened file = %v, want OK", res)
	}
}

// memFileOps is a minimal in-memory backing used to exercise File's
// dispatch logic without a real driver.
func memFileOps() *FileOps {
	return &FileOps{
		Name: "mem",
		Read: func(f *File, dst []byte, pos *int64) (int, kerrno.Status) {
			data := f.Data.([]byte)
			if *pos < 0 {
				*pos = 0
			}
			if *pos >= int64(len(data)) {
				return 0, kerrno.OK
			}
			n := copy(dst, data[*pos:])
			*pos += int64(n)
			return n, kerrno.OK
		},
	}
}

func TestLseekCurIsIdentity(t *testing.T) {
	f := &File{Op: memFileOps(), Data: []byte("hello world"), Stat: FStat{Size: 11}}
	f.Pos = 4
	pos, res := f.Lseek(0, SeekCur)
	if !res.Ok() {
		t.Fatalf("Lseek failed: %v", res)
	}
	if pos != 4 || f.Pos != 4 {
		t.Fatalf("Lseek(0, SeekCur) = %d, want 4 (seeking from current position by 0 is a no-op)", pos)
	}
}

func TestLseekBadWhence(t *testing.T) {
	f := &File{Op: memFileOps(), Data: []byte("x"), Stat: FStat{Size: 1}}
	f.Pos = 5
	_, res := f.Lseek(0, 99)
	if res != kerrno.EINVAL {
		t.Fatalf("Lseek with bad whence = %v, want EINVAL", res)
	}
	if f.Pos != 5 {
		t.Fatalf("Lseek with bad whence mutated Pos to %d", f.Pos)
	}
}

func TestPreadDoesNotTouchPos(t *testing.T) {
	f := &File{Op: memFileOps(), Data: []byte("0123456789"), Stat: FStat{Size: 10}}
	f.Pos = 2
	buf := make([]byte, 3)
	n, res := f.Pread(buf, 5)
	if !res.Ok() || n != 3 || string(buf) != "567" {
		t.Fatalf("Pread = %d %q %v", n, buf, res)
	}
	if f.Pos != 2 {
		t.Fatalf("Pread mutated f.Pos to %d, want unchanged 2", f.Pos)
	}
}

func TestReadstrNulTerminates(t *testing.T) {
	f := &File{Op: memFileOps(), Data: []byte("abc"), Stat: FStat{Size: 3}}
	buf := make([]byte, 8)
	n, res := f.ReadStr(buf)
	if !res.Ok() || n != 3 {
		t.Fatalf("ReadStr = %d %v", n, res)
	}
	if buf[3] != 0 {
		t.Fatalf("ReadStr did not NUL-terminate: %v", buf[:5])
	}
}

func TestReaddirRequiresDirKind(t *testing.T) {
	f := &File{
		Op: &FileOps{
			Readdir: func(f *File, d *Dirent) (int, kerrno.Status) { return 1, kerrno.OK },
		},
		Stat: FStat{Type: Reg},
	}
	var d Dirent
	if _, res := f.Readdir(&d); res != kerrno.ENOTDIR {
		t.Fatalf("Readdir on REG file = %v, want ENOTDIR", res)
	}
}

func TestPrintfWritesFormattedBytes(t *testing.T) {
	var written []byte
	f := &File{Op: &FileOps{
		Write: func(f *File, src []byte, pos *int64) (int, kerrno.Status) {
			written = append(written, src...)
			return len(src), kerrno.OK
		},
	}}
	n, res := f.Printf("count=%d name=%s\n", 3, "hi")
	if !res.Ok() {
		t.Fatalf("Printf failed: %v", res)
	}
	if string(written) != "count=3 name=hi\n" || n != len(written) {
		t.Fatalf("Printf wrote %q (%d)", written, n)
	}
}
