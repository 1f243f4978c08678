//go:build linux

package dht22

import "golang.org/x/sys/unix"

// maxPriority moves the calling thread to SCHED_FIFO at the highest
// realtime priority, falling back to the best niceness if that is not
// permitted (needs CAP_SYS_NICE or root). The returned func restores the
// previous policy. Failure is tolerated: without elevation reads still
// work, they just fail more often under load.
func maxPriority() func() {
	attr := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_FIFO,
		Priority: 99, // SCHED_FIFO maximum on Linux
	}
	if err := unix.SchedSetAttr(0, &attr, 0); err == nil {
		return func() {
			other := unix.SchedAttr{Size: unix.SizeofSchedAttr, Policy: unix.SCHED_NORMAL}
			unix.SchedSetAttr(0, &other, 0)
		}
	}

	// No realtime permission; at least raise the niceness.
	unix.Setpriority(unix.PRIO_PROCESS, 0, -20)
	return func() {}
}
