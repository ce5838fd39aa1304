package data

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
)

// IsMissing reports whether a cell is empty or NA.
func IsMissing(el series.Element) bool {
	if el == nil || el.IsNA() {
		return true
	}
	v := strings.TrimSpace(el.String())
	return v == "" || v == "NaN" || v == "NA"
}

// Float parses a cell as a finite number. ok is false for missing or
// non-numeric cells.
func Float(el series.Element) (v float64, ok bool) {
	if IsMissing(el) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(el.String()), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
