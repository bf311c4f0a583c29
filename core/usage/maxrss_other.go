//go:build unix && !linux && !darwin

package usage

func normalizeMaxRSS(raw int64) (int64, error) {
	return 0, ErrUnsupportedPlatform
}
