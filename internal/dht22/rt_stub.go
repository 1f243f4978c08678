//go:build !linux

package dht22

// maxPriority is a no-op where realtime scheduling is not available.
// Reads degrade to best-effort timing.
func maxPriority() func() {
	return func() {}
}
