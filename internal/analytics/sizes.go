package analytics

import (
	"sort"
	"strconv"
	"strings"
)

// letterSizes is the standard garment size ladder, in wearing order.
var letterSizes = map[string]int{
	"XS":  0,
	"S":   1,
	"M":   2,
	"L":   3,
	"XL":  4,
	"XXL": 5,
}

// singleSizes are one-size labels sorted after the letter ladder.
var singleSizes = map[string]bool{
	"U":     true,
	"ÚNICA": true,
	"UNICA": true,
	"TU":    true,
}

// sizeRank returns a two-part sort key for a garment size: numeric sizes
// first in numeric order, then the letter ladder, then one-size labels,
// then everything else lexicographically.
func sizeRank(size string) (group int, num int, label string) {
	s := strings.ToUpper(strings.TrimSpace(size))

	if n, err := strconv.Atoi(s); err == nil {
		return 0, n, ""
	}
	if idx, ok := letterSizes[s]; ok {
		return 1, idx, ""
	}
	if singleSizes[s] {
		return 2, 0, s
	}
	return 3, 0, s
}

// SortSizes orders garment size labels in retail display order.
func SortSizes(sizes []string) {
	sort.SliceStable(sizes, func(i, j int) bool {
		gi, ni, li := sizeRank(sizes[i])
		gj, nj, lj := sizeRank(sizes[j])
		if gi != gj {
			return gi < gj
		}
		if ni != nj {
			return ni < nj
		}
		return li < lj
	})
}
