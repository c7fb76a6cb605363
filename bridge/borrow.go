package main

import "unsafe"

// borrow views n bytes of caller memory at p without copying. The view must
// not outlive the exported call that received p.
func borrow(p unsafe.Pointer, n int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}
