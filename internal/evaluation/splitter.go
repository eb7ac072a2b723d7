package evaluation

import (
	"fmt"
)

// Fold is one train/test partition of row indices.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits n rows into k contiguous, unshuffled test blocks. The first
// n%k blocks hold one extra row.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("invalid number of folds: %d (must be between 2 and %d)", k, n)
	}

	folds := make([]Fold, k)
	start := 0
	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}
		end := start + size

		test := make([]int, 0, size)
		train := make([]int, 0, n-size)
		for j := 0; j < n; j++ {
			if j >= start && j < end {
				test = append(test, j)
			} else {
				train = append(train, j)
			}
		}

		folds[i] = Fold{Train: train, Test: test}
		start = end
	}

	return folds, nil
}
