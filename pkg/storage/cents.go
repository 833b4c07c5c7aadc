package storage

// AddCents returns a+b and false when the sum overflows int64.
func AddCents(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
