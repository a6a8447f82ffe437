//go:build !linux
// +build !linux

package main

import (
	"errors"
	"os"
)

// setRawMode is only implemented for linux; munix still runs
// elsewhere, it just relies on the host terminal driver's own cooking
// in addition to its own.
func setRawMode(f *os.File) (restore func(), err error) {
	return func() {}, errors.New("host raw mode not supported on this platform")
}
