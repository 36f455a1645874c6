//go:build !unix

package quarantine

// availableSpace is unsupported off unix; storage info reports zero.
func availableSpace(dir string) int64 {
	return 0
}
