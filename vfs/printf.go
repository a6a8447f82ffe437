package vfs

import (
	"fmt"

	"github.com/UIT-INF-2203/munix-2026/kerrno"
)

// Printf formats into f the way original_source's file_printf does:
// buffer, then write, no partial writes on truncation. Go's fmt does
// not truncate the way C's snprintf does, so the original's two-pass
// retry-on-truncation collapses to a single fmt.Sprintf pass here.
func (f *File) Printf(format string, args ...any) (int, kerrno.Status) {
	return f.Write([]byte(fmt.Sprintf(format, args...)))
}
