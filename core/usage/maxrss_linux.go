//go:build linux

package usage

// Linux reports ru_maxrss in kilobytes.
func normalizeMaxRSS(raw int64) (int64, error) {
	return raw * 1000, nil
}
