//go:build linux

package fibers

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func currentThreadID() int {
	return unix.Gettid()
}

func setThreadAffinity(tid, core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	if err := unix.SchedSetaffinity(tid, &set); err != nil {
		return fmt.Errorf("failed to pin thread %d to core %d: %w", tid, core, err)
	}
	return nil
}

// allowedCores lists the cores the process may run on.
func allowedCores() []int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil
	}
	n := set.Count()
	cores := make([]int, 0, n)
	for i := 0; len(cores) < n; i++ {
		if set.IsSet(i) {
			cores = append(cores, i)
		}
	}
	return cores
}
