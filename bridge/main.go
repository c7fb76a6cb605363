// Command bridge builds the C ABI shared library hosts link against:
//
//	go build -buildmode=c-shared -o libvisionedge.so ./bridge
//
// Buffers passed in are borrowed for the duration of a call. Buffers returned
// are allocated with malloc and must be released with visionedge_free.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/abihf/visionedge"
)

//export visionedge_initialize
func visionedge_initialize() *C.char {
	return C.CString(visionedge.Initialize())
}

//export visionedge_process_frame
func visionedge_process_frame(data *C.uchar, length, width, height, mode C.int, outLen *C.int) *C.uchar {
	if outLen != nil {
		*outLen = 0
	}

	in := borrow(unsafe.Pointer(data), int(length))
	out, err := visionedge.ProcessFrame(in, int32(width), int32(height), int32(mode))
	if err != nil {
		return nil
	}

	p := C.malloc(C.size_t(len(out)))
	if p == nil {
		return nil
	}
	copy(unsafe.Slice((*byte)(p), len(out)), out)
	if outLen != nil {
		*outLen = C.int(len(out))
	}
	return (*C.uchar)(p)
}

//export visionedge_free
func visionedge_free(p unsafe.Pointer) {
	C.free(p)
}

func main() {
}
