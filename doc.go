// Package munix is a small teaching kernel's user-space twin: a
// from-scratch reimplementation of its character-device layer, VFS,
// CPIO-backed root filesystem, TTY line discipline, and in-kernel
// shell, built to run as an ordinary Go process instead of freestanding
// kernel code. See cmd/munix for the entry point and SPEC_FULL.md for
// the full module layout.
package munix
