//go:build unix

package quarantine

import "golang.org/x/sys/unix"

// availableSpace returns the free bytes on the volume holding dir,
// or zero when the probe fails.
func availableSpace(dir string) int64 {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0
	}
	return int64(st.Bavail) * int64(st.Bsize)
}
