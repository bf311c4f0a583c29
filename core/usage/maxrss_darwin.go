//go:build darwin

package usage

// Darwin reports ru_maxrss in bytes.
func normalizeMaxRSS(raw int64) (int64, error) {
	return raw, nil
}
