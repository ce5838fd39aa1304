package loader

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SomethingReallCool234/NexGen/pkg/apperr"
)

func labels(zeros, ones int) []int {
	y := make([]int, 0, zeros+ones)
	for i := 0; i < zeros; i++ {
		y = append(y, 0)
	}
	for i := 0; i < ones; i++ {
		y = append(y, 1)
	}
	return y
}

func count(y, idx []int, class int) int {
	n := 0
	for _, i := range idx {
		if y[i] == class {
			n++
		}
	}
	return n
}

func TestStratifiedSplitBalanced(t *testing.T) {
	y := labels(5, 5)
	train, test, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)
	assert.Equal(t, 1, count(y, test, 0))
	assert.Equal(t, 1, count(y, test, 1))
}

func TestStratifiedSplitPartition(t *testing.T) {
	y := labels(70, 30)
	train, test, err := StratifiedSplit(y, 0.2, 7)
	require.NoError(t, err)
	assert.Len(t, test, 20)
	assert.Equal(t, 14, count(y, test, 0))
	assert.Equal(t, 6, count(y, test, 1))

	all := append(append([]int(nil), train...), test...)
	sort.Ints(all)
	for i, v := range all {
		require.Equal(t, i, v, "every row exactly once")
	}
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	y := labels(33, 17)
	tr1, te1, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)
	tr2, te2, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, tr1, tr2)
	assert.Equal(t, te1, te2)
}

func TestStratifiedSplitInsufficient(t *testing.T) {
	tests := []struct {
		name string
		y    []int
	}{
		{"empty", nil},
		{"single class", labels(10, 0)},
		{"singleton class", labels(9, 1)},
		{"too few rows for both partitions", labels(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := StratifiedSplit(tt.y, 0.2, 42)
			var insufficient *apperr.InsufficientDataError
			if !errors.As(err, &insufficient) {
				t.Fatalf("got %v, want InsufficientDataError", err)
			}
		})
	}
}

func TestStratifiedSplitBadRatio(t *testing.T) {
	for _, r := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := StratifiedSplit(labels(5, 5), r, 1)
		assert.Error(t, err, "ratio %v", r)
	}
}
