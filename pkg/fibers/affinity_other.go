//go:build !linux

package fibers

func currentThreadID() int {
	return 0
}

func setThreadAffinity(tid, core int) error {
	return nil
}

func allowedCores() []int {
	return nil
}
