package core

// Score returns the points for removing n cells in one tap: n squared.
func Score(n int) int {
	if n <= 0 {
		return 0
	}
	return n * n
}
