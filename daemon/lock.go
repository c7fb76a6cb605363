package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// IsAlreadyRunning reports whether the pid file at path names a live process.
func IsAlreadyRunning(path string) bool {
	pidStr, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Can not read pid file", "path", path, "error", err)
		}
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(pidStr)))
	if err != nil {
		slog.Warn("Invalid existing pid file", "path", path, "error", err)
		return false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// WriteLockFile records the current pid at path.
func WriteLockFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(f, "%d", os.Getpid()); err != nil {
		f.Close()
		return errors.Wrap(err, "write pid")
	}
	return f.Close()
}
