//go:build !linux

package thread

import "github.com/pkg/errors"

func SetCPUAffinity(coreID int) error {
	return errors.Errorf("cpu affinity is not supported on this platform (core %d)", coreID)
}
