// Command munix boots the kernel core against a CPIO initrd and runs
// the in-kernel shell over the host's stdin/stdout, the hosted
// stand-in for the real kernel's Multiboot2 entry point (see
// package boot). Grounded in example/hello's flag-driven entry point.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/UIT-INF-2203/munix-2026/boot"
	"github.com/UIT-INF-2203/munix-2026/kerrno"
	"github.com/UIT-INF-2203/munix-2026/kernel"
	"github.com/UIT-INF-2203/munix-2026/shell"
)

func main() {
	initrdPath := flag.String("initrd", "", "path to a CPIO newc archive to mount as the root filesystem")
	raw := flag.Bool("raw", true, "put the host terminal into raw passthrough mode for the session")
	fbWidth := flag.Int("fb-width", 0, "text framebuffer width to report in the boot log, 0 if none")
	fbHeight := flag.Int("fb-height", 0, "text framebuffer height to report in the boot log, 0 if none")
	flag.Parse()

	if *initrdPath == "" {
		log.Fatal("usage: munix -initrd PATH")
	}
	archive, err := os.ReadFile(*initrdPath)
	if err != nil {
		log.Fatalf("reading initrd: %v", err)
	}

	info := boot.Info{
		InitrdSize: uintptr(len(archive)),
		FBWidth:    *fbWidth,
		FBHeight:   *fbHeight,
	}

	port := newHostPort(os.Stdin, os.Stdout)
	ctx, res := kernel.Boot(port, info, archive)
	if !res.Ok() {
		log.Fatalf("boot failed: %v", res)
	}

	if *raw {
		restore, err := setRawMode(os.Stdin)
		ctx.Log.DebugResult(kerrno.FromErrno(err), "enable host terminal raw mode")
		defer restore()
	}

	res = shell.Run(ctx, ctx.Console)
	if !res.Ok() {
		ctx.Log.Errorf("shell exited: %v", res)
		os.Exit(1)
	}
}
