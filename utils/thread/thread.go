//go:build linux

// Package thread controls scheduling of the calling OS thread.
package thread

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// SetCPUAffinity pins the calling OS thread to coreID. Callers must hold the
// thread with runtime.LockOSThread for the pin to stay with their goroutine.
func SetCPUAffinity(coreID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(coreID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return errors.Wrapf(err, "pin thread to core %d", coreID)
	}
	return nil
}
