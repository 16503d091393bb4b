//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package monitoring

// No statfs on this platform; reports show zero capacity.
func fsUsage(string) (totalBytes uint64, freeBytes uint64) {
	return 0, 0
}
