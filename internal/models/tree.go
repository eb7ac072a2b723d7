package models

import (
	"sort"
)

type TreeNode struct {
	IsLeaf    bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Samples   int
	Gain      float64
}

// DecisionTree is a binary regression tree grown greedily on squared error. A
// node predicts the mean of its rows; a split on feature f at threshold t
// (left: x_f <= t) scores SL²/nL + SR²/nR - S²/n, which is the drop in the
// sum of squared errors.
type DecisionTree struct {
	BaseModel
	Root            *TreeNode
	MaxDepth        int
	MinSamplesSplit int
	NFeatures       int
}

// NewDecisionTree returns a squared-error regression tree. maxDepth <= 0
// grows until leaves are pure.
func NewDecisionTree(maxDepth, minSamplesSplit int) *DecisionTree {
	if minSamplesSplit <= 0 {
		minSamplesSplit = 2
	}

	return &DecisionTree{
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		BaseModel: BaseModel{
			Name: "DecisionTree",
			Params: map[string]any{
				"max_depth":         maxDepth,
				"min_samples_split": minSamplesSplit,
			},
		},
	}
}

func (dt *DecisionTree) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}
	indices := make([]int, len(X))
	for i := range indices {
		indices[i] = i
	}
	dt.fitRows(X, y, indices)
	return nil
}

// fitRows fits the rows listed in indices, which may repeat.
func (dt *DecisionTree) fitRows(X [][]float64, y []float64, indices []int) {
	dt.NFeatures = len(X[0])
	dt.Root = dt.buildTree(X, y, indices, 0)
}

func (dt *DecisionTree) buildTree(X [][]float64, y []float64, indices []int, depth int) *TreeNode {
	sum := 0.0
	for _, i := range indices {
		sum += y[i]
	}

	node := &TreeNode{
		Samples: len(indices),
		Value:   sum / float64(len(indices)),
	}

	if (dt.MaxDepth > 0 && depth >= dt.MaxDepth) ||
		len(indices) < dt.MinSamplesSplit ||
		isConstant(y, indices) {
		node.IsLeaf = true
		return node
	}

	feature, threshold, gain, ok := dt.findBestSplit(X, y, indices, sum)
	if !ok || gain <= 0 {
		node.IsLeaf = true
		return node
	}

	left, right := splitRows(X, indices, feature, threshold)
	if len(left) == 0 || len(right) == 0 {
		node.IsLeaf = true
		return node
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Gain = gain
	node.Left = dt.buildTree(X, y, left, depth+1)
	node.Right = dt.buildTree(X, y, right, depth+1)

	return node
}

// findBestSplit scans every feature in sorted order and returns the split with
// the highest gain. Thresholds sit halfway between consecutive distinct values.
func (dt *DecisionTree) findBestSplit(X [][]float64, y []float64, indices []int, sum float64) (int, float64, float64, bool) {
	bestFeature := 0
	bestThreshold := 0.0
	bestGain := 0.0
	found := false

	n := float64(len(indices))
	parent := sum * sum / n
	order := make([]int, len(indices))

	for feature := 0; feature < dt.NFeatures; feature++ {
		copy(order, indices)
		sort.SliceStable(order, func(a, b int) bool {
			return X[order[a]][feature] < X[order[b]][feature]
		})

		sumL := 0.0
		for a := 0; a < len(order)-1; a++ {
			sumL += y[order[a]]

			lo := X[order[a]][feature]
			hi := X[order[a+1]][feature]
			if lo == hi {
				continue
			}

			nL := float64(a + 1)
			nR := n - nL
			sumR := sum - sumL

			gain := sumL*sumL/nL + sumR*sumR/nR - parent
			if !found || gain > bestGain {
				threshold := lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
				bestFeature = feature
				bestThreshold = threshold
				bestGain = gain
				found = true
			}
		}
	}

	return bestFeature, bestThreshold, bestGain, found
}

func (dt *DecisionTree) Predict(X [][]float64) ([]float64, error) {
	if dt.Root == nil {
		return nil, notFitted(dt.Name)
	}

	predictions := make([]float64, len(X))
	for i, sample := range X {
		predictions[i] = dt.predictSample(sample)
	}
	return predictions, nil
}

func (dt *DecisionTree) predictSample(sample []float64) float64 {
	node := dt.Root
	for !node.IsLeaf {
		if sample[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (dt *DecisionTree) Depth() int {
	var depth func(n *TreeNode) int
	depth = func(n *TreeNode) int {
		if n == nil || n.IsLeaf {
			return 0
		}
		return 1 + max(depth(n.Left), depth(n.Right))
	}
	return depth(dt.Root)
}

func (dt *DecisionTree) Reset() {
	dt.Root = nil
	dt.NFeatures = 0
}

func isConstant(values []float64, indices []int) bool {
	if len(indices) == 0 {
		return true
	}
	first := values[indices[0]]
	for _, i := range indices[1:] {
		if values[i] != first {
			return false
		}
	}
	return true
}

func splitRows(X [][]float64, indices []int, feature int, threshold float64) ([]int, []int) {
	var left, right []int
	for _, i := range indices {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}
