package klog

import (
	"github.com/UIT-INF-2203/munix-2026/vfs"
)

// fileSink adapts a *vfs.File into a Logger, so the kernel can
// redirect the logging façade's output through the serial console the
// way original_source's log_set_file does.
type fileSink struct {
	f *vfs.File
}

func (s *fileSink) Printf(format string, args ...any) {
	s.f.Printf(format, args...)
}

// SetSink redirects k's output through f (typically an open serial
// device), matching log_set_file in original_source/src/lib/drivers/log.c.
func (k *KLog) SetSink(f *vfs.File) {
	k.out = &fileSink{f: f}
}
