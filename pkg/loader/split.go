package loader

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/SomethingReallCool234/NexGen/pkg/apperr"
)

// StratifiedSplit partitions the row indices of y into train and test sets so
// that each class keeps its share of the whole in both sets.
// The test set has ceil(testRatio*n) rows, allocated to classes by largest
// remainder. The same seed always gives the same split.
func StratifiedSplit(y []int, testRatio float64, seed int64) (train, test []int, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("split: test ratio %v outside (0,1)", testRatio)
	}
	n := len(y)
	groups := map[int][]int{}
	for i, label := range y {
		groups[label] = append(groups[label], i)
	}
	classes := make([]int, 0, len(groups))
	for c := range groups {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	if len(classes) < 2 {
		return nil, nil, &apperr.InsufficientDataError{Reason: fmt.Sprintf("need 2 label classes to stratify, found %d", len(classes))}
	}
	for _, c := range classes {
		if len(groups[c]) < 2 {
			return nil, nil, &apperr.InsufficientDataError{Reason: fmt.Sprintf("class %d has only %d member(s)", c, len(groups[c]))}
		}
	}

	nTest := int(math.Ceil(testRatio*float64(n) - 1e-9))
	if nTest < len(classes) || n-nTest < len(classes) {
		return nil, nil, &apperr.InsufficientDataError{Reason: fmt.Sprintf("%d rows cannot hold every class in both partitions", n)}
	}

	alloc := allocate(classes, groups, n, nTest)
	for k, c := range classes {
		if alloc[k] < 1 || alloc[k] >= len(groups[c]) {
			return nil, nil, &apperr.InsufficientDataError{Reason: fmt.Sprintf("class %d is too small to appear in both partitions", c)}
		}
	}

	rnd := rand.New(rand.NewSource(seed))
	for k, c := range classes {
		idx := append([]int(nil), groups[c]...)
		ShuffleIndices(idx, rnd)
		test = append(test, idx[:alloc[k]]...)
		train = append(train, idx[alloc[k]:]...)
	}
	ShuffleIndices(train, rnd)
	ShuffleIndices(test, rnd)
	return train, test, nil
}

// allocate splits nTest across classes in proportion to class size.
func allocate(classes []int, groups map[int][]int, n, nTest int) []int {
	type share struct {
		k    int
		frac float64
	}
	alloc := make([]int, len(classes))
	shares := make([]share, len(classes))
	given := 0
	for k, c := range classes {
		exact := float64(nTest) * float64(len(groups[c])) / float64(n)
		alloc[k] = int(math.Floor(exact))
		given += alloc[k]
		shares[k] = share{k: k, frac: exact - math.Floor(exact)}
	}
	sort.SliceStable(shares, func(a, b int) bool { return shares[a].frac > shares[b].frac })
	for i := 0; given < nTest; i++ {
		alloc[shares[i%len(shares)].k]++
		given++
	}
	return alloc
}

// ShuffleIndices shuffles idx in place with rnd.
func ShuffleIndices(idx []int, rnd *rand.Rand) {
	rnd.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
}
