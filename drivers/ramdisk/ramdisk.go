// Package ramdisk implements munix's in-memory block device,
// grounded in
// original_source/src/lib/drivers/chrdev/ramdisk.c. A fixed pool of
// named byte-slice-backed disks; used both as the backing store for
// the boot initrd and as a general-purpose block device for the CPIO
// filesystem driver to read from.
package ramdisk

import (
	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

// MaxRamdisks bounds the number of disks the driver can hold at once,
// matching original_source's RAMDISK_NOS.
const MaxRamdisks = 4

type disk struct {
	data []byte
	name string
	used bool
}

// Driver is munix's ramdisk character driver.
type Driver struct {
	disks [MaxRamdisks]disk
}

// Ops returns the vfs.FileOps table for this driver, suitable for
// chrdev.Registry.Register. There is no Write or Lseek entry: writes
// are unsupported, and seeking falls back to vfs's generic
// SEEK_SET/CUR/END arithmetic.
func (d *Driver) Ops() *vfs.FileOps {
	return &vfs.FileOps{
		Name:     "ramdisk",
		OpenDev:  d.openDev,
		Read:     d.read,
		DebugStr: d.debugStr,
	}
}

// Create registers data under name and returns its minor number. The
// slice is held, not copied: callers must not mutate it afterward.
func (d *Driver) Create(data []byte, name string) (uint8, kerrno.Status) {
	for i := range d.disks {
		if !d.disks[i].used {
			d.disks[i] = disk{data: data, name: name, used: true}
			return uint8(i), kerrno.OK
		}
	}
	return 0, kerrno.ENOBUFS
}

func (d *Driver) diskFor(minor uint8) *disk {
	if int(minor) >= MaxRamdisks || !d.disks[minor].used {
		return nil
	}
	return &d.disks[minor]
}

func (d *Driver) openDev(f *vfs.File, minor uint8) kerrno.Status {
	dk := d.diskFor(minor)
	if dk == nil {
		return kerrno.ENODEV
	}
	f.Data = dk
	f.Stat.Size = int64(len(dk.data))
	return kerrno.OK
}

// read implements the clamp-to-EOF semantics of boundary test B1: a
// negative pos clamps to 0; pos at or past the disk's size returns 0
// bytes; otherwise it copies up to min(len(dst), size-pos) bytes.
func (d *Driver) read(f *vfs.File, dst []byte, pos *int64) (int, kerrno.Status) {
	dk := f.Data.(*disk)

	off := *pos
	if off < 0 {
		off = 0
	}
	size := int64(len(dk.data))
	if off >= size {
		*pos = off
		return 0, kerrno.OK
	}

	n := int64(len(dst))
	if remain := size - off; n > remain {
		n = remain
	}
	copy(dst[:n], dk.data[off:off+n])
	*pos = off + n
	return int(n), kerrno.OK
}

func (d *Driver) debugStr(f *vfs.File) string {
	dk := f.Data.(*disk)
	return "ramdisk:" + dk.name
}
