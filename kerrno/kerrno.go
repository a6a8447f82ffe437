// Package kerrno defines the small signed-integer error codes used
// throughout munix, mirroring the convention in
// original_source/src/lib/core/errno.h: zero is success, negative is
// error. Status implements the error interface so it composes with
// ordinary Go control flow while still supporting direct comparison
// against the named constants callers check against.
package kerrno

import (
	"fmt"
	"os"
	"syscall"
)

// Status is a munix result code. Zero (OK) is success; negative values
// are errors. Positive values are never produced by munix itself.
type Status int32

// OK indicates success.
const OK Status = 0

// Error kinds, matching original_source/src/lib/core/errno.h.
const (
	EINVAL   Status = -iota - 1 // invalid argument, bad whence, unparseable hex digit
	ENOENT                      // no such path; no mount covers a path
	ENODEV                      // major/minor not registered or out of range
	ENOTSUP                     // operation absent from driver table
	EBUSY                       // registry slot holds a different driver
	ENOBUFS                     // TTY input buffer full; backing pool exhausted
	EOVERFLOW                   // pathname longer than PATH_MAX
	EIO                         // hardware self-test failed
	EAGAIN                      // no data ready, call again later
	ENOTDIR                     // readdir on a non-directory
	ENOMEM                      // out of memory (munix's own pools report exhaustion as ENOBUFS)
	EPERM                       // operation not permitted
	E2BIG                       // argument list too long
)

var names = map[Status]string{
	OK:        "OK",
	EINVAL:    "EINVAL",
	ENOENT:    "ENOENT",
	ENODEV:    "ENODEV",
	ENOTSUP:   "ENOTSUP",
	EBUSY:     "EBUSY",
	ENOBUFS:   "ENOBUFS",
	EOVERFLOW: "EOVERFLOW",
	EIO:       "EIO",
	EAGAIN:    "EAGAIN",
	ENOTDIR:   "ENOTDIR",
	ENOMEM:    "ENOMEM",
	EPERM:     "EPERM",
	E2BIG:     "E2BIG",
}

// String renders the status as its symbolic name, falling back to the
// raw integer for unknown values.
func (s Status) String() string {
	if name, ok := names[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// Error satisfies the error interface so a Status can be returned
// anywhere idiomatic Go expects one. OK.Error() is never meant to be
// called; Ok() should always be checked first.
func (s Status) Error() string {
	return s.String()
}

// Ok reports whether s represents success.
func (s Status) Ok() bool {
	return s == OK
}

// FromErrno converts a host syscall error (e.g. from golang.org/x/sys/unix
// calls in the terminal front-end) into the nearest munix Status.
// Grounded in fuse.ToStatus (fuse/misc.go), adapted to munix's polarity.
func FromErrno(err error) Status {
	if err == nil {
		return OK
	}
	switch err {
	case os.ErrPermission:
		return EPERM
	case os.ErrNotExist:
		return ENOENT
	case os.ErrInvalid:
		return EINVAL
	}
	switch t := err.(type) {
	case syscall.Errno:
		switch t {
		case syscall.EINVAL:
			return EINVAL
		case syscall.ENOENT:
			return ENOENT
		case syscall.ENODEV:
			return ENODEV
		case syscall.EBUSY:
			return EBUSY
		case syscall.EAGAIN:
			return EAGAIN
		case syscall.EIO:
			return EIO
		case syscall.EPERM:
			return EPERM
		default:
			return EIO
		}
	case *os.SyscallError:
		return FromErrno(t.Err)
	case *os.PathError:
		return FromErrno(t.Err)
	}
	return EIO
}
