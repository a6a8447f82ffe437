// Package kernel bundles munix's device registries, mount table, and
// drivers behind one value and performs the deterministic boot
// sequence. Grounded in
// original_source/src/kernel/main.c's boot order, reworked to
// encapsulate the original's package-level globals (serials, ttys,
// superblocks, chrdev_drivers, fs_drivers) behind a single context
// threaded through calls instead.
package kernel

import (
	"github.com/UIT-INF-2203/munix-2026/boot"
	"github.com/UIT-INF-2203/munix-2026/chrdev"
	"github.com/UIT-INF-2203/munix-2026/cpio"
	"github.com/UIT-INF-2203/munix-2026/drivers/ramdisk"
	"github.com/UIT-INF-2203/munix-2026/drivers/serial"
	"github.com/UIT-INF-2203/munix-2026/drivers/tty"
	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/klog"
	"github.com/UIT-INF-2203/munix-2026/mount"
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

// Major/minor and filesystem-type assignments, fixed for this design.
const (
	MajorSerial  = 1
	MajorRamdisk = 2
	MajorTTY     = 3

	FSTypeCPIO = 1

	LogSerialMinor = 1
	ConsoleMinor   = 1
	InitrdMinor    = 0
)

// Context bundles one instance each of the device/filesystem
// registries, the mount table, and the three character drivers, plus
// the logging façade and the opened console file the shell reads and
// writes through.
type Context struct {
	ChrReg  chrdev.Registry
	FSReg   chrdev.FSRegistry
	Mounts  *mount.Table
	Serial  serial.Driver
	Ramdisk ramdisk.Driver
	TTY     tty.Driver
	Log     *klog.KLog

	Console *vfs.File
}

// Boot performs the deterministic synchronous boot order: register
// the serial driver, open serial minor 1 as the log
// sink with ICRNL|OCRNL enabled, register the ramdisk/TTY/CPIO
// drivers, register the initrd archive as a ramdisk, mount it as CPIO
// at "/", then attach and open TTY minor 1 on top of the same serial
// port for the shell's console. info stands in for the real kernel's
// parsed Multiboot2 tags (see package boot); its InitrdSize, when
// nonzero, is cross-checked against archive's actual length, and its
// framebuffer geometry is folded into the boot-complete log line.
// Returns a Context ready for a shell loop to open "/" and run.
func Boot(logPort serial.Port, info boot.Info, archive []byte) (*Context, kerrno.Status) {
	ctx := &Context{}

	if res := ctx.Serial.Attach(LogSerialMinor, logPort); !res.Ok() {
		return nil, res
	}
	if res := ctx.ChrReg.Register(MajorSerial, ctx.Serial.Ops()); !res.Ok() {
		return nil, res
	}

	logFile := &vfs.File{}
	if res := ctx.ChrReg.OpenDev(logFile, vfs.MakeDev(MajorSerial, LogSerialMinor)); !res.Ok() {
		return nil, res
	}
	if res := logFile.Ioctl(serial.SetFlags, uint(serial.ICRNL|serial.OCRNL)); !res.Ok() {
		return nil, res
	}

	ctx.Log = klog.New(nil, klog.Info)
	ctx.Log.SetSink(logFile)

	if res := ctx.ChrReg.Register(MajorRamdisk, ctx.Ramdisk.Ops()); !res.Ok() {
		return nil, res
	}
	if res := ctx.ChrReg.Register(MajorTTY, ctx.TTY.Ops()); !res.Ok() {
		return nil, res
	}
	cpioDrv := cpio.NewDriver(&ctx.ChrReg)
	if res := ctx.FSReg.Register(FSTypeCPIO, cpioDrv.Ops()); !res.Ok() {
		return nil, res
	}

	rdMinor, res := ctx.Ramdisk.Create(archive, "initrd")
	if !res.Ok() {
		return nil, res
	}

	ctx.Mounts = mount.NewTable(&ctx.FSReg)
	if res := ctx.Mounts.Mount(vfs.MakeDev(MajorRamdisk, rdMinor), FSTypeCPIO, "/"); !res.Ok() {
		return nil, res
	}

	if res := ctx.TTY.Attach(ConsoleMinor, logFile); !res.Ok() {
		return nil, res
	}
	console := &vfs.File{}
	if res := ctx.ChrReg.OpenDev(console, vfs.MakeDev(MajorTTY, ConsoleMinor)); !res.Ok() {
		return nil, res
	}
	ctx.Console = console

	if info.InitrdSize != 0 && info.InitrdSize != uintptr(len(archive)) {
		ctx.Log.Warnf("boot info initrd size %d does not match archive length %d", info.InitrdSize, len(archive))
	}
	if info.FBWidth > 0 && info.FBHeight > 0 {
		ctx.Log.Infof("boot complete: initrd %d bytes on ramdisk minor %d, framebuffer %dx%d",
			len(archive), rdMinor, info.FBWidth, info.FBHeight)
	} else {
		ctx.Log.Infof("boot complete: initrd %d bytes on ramdisk minor %d, no framebuffer", len(archive), rdMinor)
	}
	return ctx, kerrno.OK
}
