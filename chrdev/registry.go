// Package chrdev implements the device-number registry: two parallel
// fixed-size tables mapping small integer ids to driver operations
// tables, each slot immutable once set. Grounded in
// original_source/src/lib/drivers/vfs_file.c's
// chrdev_register and vfs_fs.c's fs_register, restated as Go methods
// on a value type instead of package-level globals so a kernel.Context
// can hold an independent registry per instance.
package chrdev

import (
	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

// MajorsMax bounds the character-driver major-number space.
const MajorsMax = 256

// Registry maps a character-driver major number to its operations
// table. Major 0 is reserved (MAJ_NONE in the original) and never
// assignable.
type Registry struct {
	drivers [MajorsMax]*vfs.FileOps
}

// Register installs ops at major. Registering the exact same pointer
// twice is a no-op that returns OK both times; registering a
// different pointer at an occupied slot returns EBUSY without
// mutating the table.
func (r *Registry) Register(major uint8, ops *vfs.FileOps) kerrno.Status {
	if major == 0 {
		return kerrno.EINVAL
	}
	if r.drivers[major] != nil {
		if r.drivers[major] == ops {
			return kerrno.OK
		}
		return kerrno.EBUSY
	}
	r.drivers[major] = ops
	return kerrno.OK
}

// Lookup returns the operations table registered at major, or nil if
// none is registered.
func (r *Registry) Lookup(major uint8) *vfs.FileOps {
	return r.drivers[major]
}

// OpenDev opens f as a device with device number rdev, looking up the
// driver by major and delegating to vfs.OpenDev. Mirrors
// file_open_dev in original_source/src/lib/drivers/vfs_file.c.
func (r *Registry) OpenDev(f *vfs.File, rdev vfs.DevNum) kerrno.Status {
	ops := r.Lookup(rdev.Major())
	if ops == nil {
		*f = vfs.File{}
		return kerrno.ENODEV
	}
	return vfs.OpenDev(f, ops, rdev.Minor(), rdev)
}

// FSTypesMax bounds the filesystem-driver type-id space.
const FSTypesMax = 32

// FSRegistry maps a filesystem type id to its operations table,
// mirroring original_source's fs_drivers array in vfs_fs.c.
type FSRegistry struct {
	drivers [FSTypesMax]*vfs.FSOps
}

// Register installs ops at fstypeid under the same immutable-once-set
// semantics as Registry.Register.
func (r *FSRegistry) Register(fstypeid uint8, ops *vfs.FSOps) kerrno.Status {
	if fstypeid == 0 || int(fstypeid) >= FSTypesMax {
		return kerrno.EINVAL
	}
	if r.drivers[fstypeid] != nil {
		if r.drivers[fstypeid] == ops {
			return kerrno.OK
		}
		return kerrno.EBUSY
	}
	r.drivers[fstypeid] = ops
	return kerrno.OK
}

// Lookup returns the operations table registered at fstypeid, or nil.
func (r *FSRegistry) Lookup(fstypeid uint8) *vfs.FSOps {
	if int(fstypeid) >= FSTypesMax {
		return nil
	}
	return r.drivers[fstypeid]
}
