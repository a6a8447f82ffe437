// Package vfs implements munix's uniform file object: a single
// polymorphic handle that represents a character device or a regular
// file/directory inside a mounted filesystem, dispatching through an
// optional-entrypoint operations table. Grounded in go-fuse's
// File/FileSystem split (fuse/api.go) and its all-ENOSYS default
// implementation (fuse/defaultfile.go), adapted to munix's flat
// function-table driver model (original_source/src/lib/drivers/vfs.h)
// instead of an interface with one method per op: munix's drivers
// supply only the entry points they have, and absence must mean
// "not supported" rather than a compile-time requirement to implement
// everything.
package vfs

import (
	"fmt"

	"github.com/UIT-INF-2203/munix-2026/kerrno"
)

// PathMax bounds a pathname or directory-entry name, matching
// original_source/src/lib/drivers/vfs.h's PATH_MAX.
const PathMax = 128

// DevNum packs a (major, minor) device number pair into one integer,
// mirroring the C MAKEDEV/MAJOR/MINOR macros in devices.h.
type DevNum uint32

// MakeDev packs a major/minor pair into a DevNum.
func MakeDev(major, minor uint8) DevNum {
	return DevNum(uint32(major)<<8 | uint32(minor))
}

// Major returns the device's major number.
func (d DevNum) Major() uint8 { return uint8(d >> 8) }

// Minor returns the device's minor number.
func (d DevNum) Minor() uint8 { return uint8(d) }

func (d DevNum) String() string {
	return fmt.Sprintf("(%d,%d)", d.Major(), d.Minor())
}

// DirType is the kind of a directory entry or open file.
type DirType uint8

const (
	Unknown DirType = iota
	Chr             // character device
	Dir             // directory
	Reg             // regular file
)

func (t DirType) String() string {
	switch t {
	case Chr:
		return "CHR"
	case Dir:
		return "DIR"
	case Reg:
		return "REG"
	default:
		return "UNKNOWN"
	}
}

// Seek whence values, matching original_source's SEEK_SET/SEEK_CUR/SEEK_END.
const (
	SeekSet = 1
	SeekCur = 2
	SeekEnd = 3
)

// Dirent is one entry in a directory listing.
type Dirent struct {
	Ino  int64
	Type DirType
	Name string // bounded by PathMax; callers must not rely on more
}

// FStat is the metadata snapshot a file carries: inode number, kind,
// device number (if the file itself is a device), and size in bytes.
type FStat struct {
	Ino  int64
	Type DirType
	RDev DevNum
	Size int64
}

// FileOps is a driver's table of optional entry points. A nil field
// means the operation is not supported by that driver; every File
// dispatch function checks for nil and returns EINVAL rather than
// panicking, matching original_source/src/lib/drivers/vfs.h's
// file_operations with every member a possibly-null function pointer.
type FileOps struct {
	Name string

	// OpenDev initializes a file opened as a character device, given
	// the device's minor number.
	OpenDev func(f *File, minor uint8) kerrno.Status

	// OpenPath initializes a file opened by path within a mounted
	// filesystem's superblock.
	OpenPath func(f *File, sb *Superblock, relpath string) kerrno.Status

	Release  func(f *File) kerrno.Status
	DebugStr func(f *File) string
	Read     func(f *File, dst []byte, pos *int64) (int, kerrno.Status)
	Write    func(f *File, src []byte, pos *int64) (int, kerrno.Status)
	Readdir  func(f *File, d *Dirent) (int, kerrno.Status)
	Lseek    func(f *File, off int64, whence int) (int64, kerrno.Status)
	Ioctl    func(f *File, cmd uint, arg any) kerrno.Status
}

// Superblock is the live per-mount record produced by a filesystem
// driver's SBOpen, matching original_source's struct superblock.
type Superblock struct {
	RootIno   int64
	BDev      DevNum
	Name      string
	MountPath string
	Ops       *FSOps
	Data      any
}

// FSOps is a filesystem driver's table: mount/unmount hooks plus the
// file-operations table used to open files within it.
type FSOps struct {
	Name       string
	SBOpen     func(sb *Superblock) kerrno.Status
	SBRelease  func(sb *Superblock) kerrno.Status
	FileFileOp *FileOps
}

// File is the uniform handle: metadata snapshot, current position,
// and a link to its driver's operations table plus opaque driver
// data. Lifecycle: zero value (uninitialized) -> opened via OpenDev or
// OpenPath -> Close. The handle is reusable after Close.
type File struct {
	Stat FStat
	Pos  int64

	Op   *FileOps
	Data any
}

// Close releases the file via its driver's Release entry point, if
// any. A file with no operations table closes trivially.
func (f *File) Close() kerrno.Status {
	if f == nil || f.Op == nil || f.Op.Release == nil {
		return kerrno.OK
	}
	return f.Op.Release(f)
}

// Read reads into dst at the file's current position, advancing it.
func (f *File) Read(dst []byte) (int, kerrno.Status) {
	if f == nil || f.Op == nil || f.Op.Read == nil {
		return 0, kerrno.EINVAL
	}
	if len(dst) == 0 {
		return 0, kerrno.OK
	}
	return f.Op.Read(f, dst, &f.Pos)
}

// Pread reads into dst at the given offset without touching the
// file's own position.
func (f *File) Pread(dst []byte, off int64) (int, kerrno.Status) {
	if f == nil || f.Op == nil || f.Op.Read == nil {
		return 0, kerrno.EINVAL
	}
	if len(dst) == 0 {
		return 0, kerrno.OK
	}
	return f.Op.Read(f, dst, &off)
}

// Write writes src at the file's current position, advancing it.
func (f *File) Write(src []byte) (int, kerrno.Status) {
	if f == nil || f.Op == nil || f.Op.Write == nil {
		return 0, kerrno.EINVAL
	}
	if len(src) == 0 {
		return 0, kerrno.OK
	}
	return f.Op.Write(f, src, &f.Pos)
}

// Pwrite writes src at the given offset without touching the file's
// own position.
func (f *File) Pwrite(src []byte, off int64) (int, kerrno.Status) {
	if f == nil || f.Op == nil || f.Op.Write == nil {
		return 0, kerrno.EINVAL
	}
	if len(src) == 0 {
		return 0, kerrno.OK
	}
	return f.Op.Write(f, src, &off)
}

// ReadStr reads up to len(dst)-1 bytes and NUL-terminates the result,
// returning the byte count (not counting the NUL).
func (f *File) ReadStr(dst []byte) (int, kerrno.Status) {
	if len(dst) == 0 {
		return 0, kerrno.OK
	}
	n, res := f.Read(dst[:len(dst)-1])
	if !res.Ok() {
		return 0, res
	}
	dst[n] = 0
	return n, kerrno.OK
}

// Lseek seeks the file. If the driver supplies its own Lseek (to
// validate, or to seek a wrapped stream), it is called first; then
// f.Pos is updated per whence. An unknown whence fails without
// changing f.Pos.
func (f *File) Lseek(off int64, whence int) (int64, kerrno.Status) {
	if f == nil || f.Op == nil {
		return 0, kerrno.EINVAL
	}

	switch whence {
	case SeekSet, SeekCur, SeekEnd:
	default:
		return 0, kerrno.EINVAL
	}

	if f.Op.Lseek != nil {
		if _, res := f.Op.Lseek(f, off, whence); !res.Ok() {
			return f.Pos, res
		}
	}

	switch whence {
	case SeekSet:
		f.Pos = off
	case SeekCur:
		f.Pos += off
	case SeekEnd:
		f.Pos = f.Stat.Size + off
	}
	if f.Pos < 0 {
		f.Pos = 0
	}
	return f.Pos, kerrno.OK
}

// Ioctl issues a device-control command. By convention, "get" commands
// take a pointer that the driver fills in; "set" commands take the
// value itself. This replaces the original's cast-through-uintptr
// calling convention with Go's ordinary pointer-or-value argument
// passing.
func (f *File) Ioctl(cmd uint, arg any) kerrno.Status {
	if f == nil || f.Op == nil || f.Op.Ioctl == nil {
		return kerrno.EINVAL
	}
	return f.Op.Ioctl(f, cmd, arg)
}

// Readdir requires the file be a directory and that the driver
// support Readdir; returns (1, OK) for an entry, (0, OK) at
// end-of-directory, and a negative Status on error.
func (f *File) Readdir(d *Dirent) (int, kerrno.Status) {
	if f == nil || f.Op == nil || f.Op.Readdir == nil {
		return 0, kerrno.EINVAL
	}
	if d == nil {
		return 0, kerrno.EINVAL
	}
	if f.Stat.Type != Dir {
		return 0, kerrno.ENOTDIR
	}
	return f.Op.Readdir(f, d)
}

// DebugStr renders a short debug description of the file, deferring to
// the driver's DebugStr if present.
func (f *File) DebugStr() string {
	if f == nil || f.Op == nil {
		return "file{NULL}"
	}
	if f.Op.DebugStr != nil {
		return f.Op.DebugStr(f)
	}
	if f.Stat.RDev != 0 {
		return fmt.Sprintf("%s%d", f.Op.Name, f.Stat.RDev.Minor())
	}
	return fmt.Sprintf("file{%p}", f)
}

// OpenDev opens f as a character device with the given operations
// table and minor number, resetting any previous state.
func OpenDev(f *File, ops *FileOps, minor uint8, rdev DevNum) kerrno.Status {
	*f = File{}
	f.Stat.Type = Chr
	f.Stat.RDev = rdev
	f.Op = ops
	if ops == nil {
		return kerrno.ENODEV
	}
	if ops.OpenDev == nil {
		return kerrno.OK
	}
	return ops.OpenDev(f, minor)
}
