// Package boot stands in for the Multiboot2 boot-info collaborator,
// parsing real boot tags being out of scope here: the real kernel
// reads a bootloader-supplied tag stream and yields a struct carrying
// the initrd location and optional framebuffer geometry. munix runs as a
// hosted Go process, so Info is populated from command-line flags by
// cmd/munix instead of being parsed from real Multiboot2 tags.
package boot

// Info carries the values the real boot-info parser would have
// yielded: the initrd's address and size, and optional text
// framebuffer geometry. munix's core consumes these values only; it
// never re-parses boot tags itself.
type Info struct {
	InitrdAddr uintptr
	InitrdSize uintptr

	FBWidth  int
	FBHeight int
}
