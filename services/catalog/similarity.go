package catalog

// similarity returns a normalized [0,1] ratio between two strings:
// twice the number of matched characters over the combined length,
// where matches are found by recursively locating the longest common
// block on either side of previous matches.
func similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matched := matchingChars(a, b)
	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

// longestMatch finds the longest common substring of a and b, preferring
// the leftmost occurrence on ties.
func longestMatch(a, b string) (besti, bestj, bestsize int) {
	b2j := make(map[byte][]int, len(b))
	for j := 0; j < len(b); j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	j2len := make(map[int]int)
	for i := 0; i < len(a); i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := 1
			if j > 0 {
				k = j2len[j-1] + 1
			}
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
