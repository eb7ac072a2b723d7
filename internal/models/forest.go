package models

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
)

// RandomForest averages squared-error trees grown on bootstrap samples. Every
// split considers all features.
type RandomForest struct {
	BaseModel
	NTrees          int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
	Trees           []*DecisionTree
	Parallel        bool
	MaxWorkers      int
}

func NewRandomForest(nTrees, maxDepth, minSamplesSplit int, seed int64) *RandomForest {
	return &RandomForest{
		NTrees:          nTrees,
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		Seed:            seed,
		Parallel:        true,
		MaxWorkers:      runtime.NumCPU(),
		BaseModel: BaseModel{
			Name: "RandomForestRegressor",
			Params: map[string]any{
				"n_estimators":      nTrees,
				"max_depth":         maxDepth,
				"min_samples_split": minSamplesSplit,
				"random_state":      seed,
			},
		},
	}
}

func (rf *RandomForest) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}
	if rf.NTrees <= 0 {
		return fmt.Errorf("random forest needs at least one tree, got %d", rf.NTrees)
	}

	// Seeds are drawn before any tree trains so the result does not depend on
	// worker scheduling.
	master := rand.New(rand.NewSource(rf.Seed))
	seeds := make([]int64, rf.NTrees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	rf.Trees = make([]*DecisionTree, rf.NTrees)

	if rf.Parallel && rf.MaxWorkers > 1 {
		rf.trainParallel(X, y, seeds)
	} else {
		rf.trainSequential(X, y, seeds)
	}
	return nil
}

func (rf *RandomForest) trainParallel(X [][]float64, y []float64, seeds []int64) {
	var wg sync.WaitGroup

	workers := rf.MaxWorkers
	if workers > rf.NTrees {
		workers = rf.NTrees
	}

	jobs := make(chan int, rf.NTrees)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rf.Trees[i] = rf.trainSingleTree(X, y, seeds[i])
			}
		}()
	}

	for i := 0; i < rf.NTrees; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}

func (rf *RandomForest) trainSequential(X [][]float64, y []float64, seeds []int64) {
	for i := 0; i < rf.NTrees; i++ {
		rf.Trees[i] = rf.trainSingleTree(X, y, seeds[i])
	}
}

func (rf *RandomForest) trainSingleTree(X [][]float64, y []float64, seed int64) *DecisionTree {
	r := rand.New(rand.NewSource(seed))

	n := len(X)
	sample := make([]int, n)
	for i := range sample {
		sample[i] = r.Intn(n)
	}

	tree := NewDecisionTree(rf.MaxDepth, rf.MinSamplesSplit)
	tree.fitRows(X, y, sample)
	return tree
}

func (rf *RandomForest) Predict(X [][]float64) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, notFitted(rf.Name)
	}

	predictions := make([]float64, len(X))
	for _, tree := range rf.Trees {
		for i, sample := range X {
			predictions[i] += tree.predictSample(sample)
		}
	}

	nTrees := float64(len(rf.Trees))
	for i := range predictions {
		predictions[i] /= nTrees
	}
	return predictions, nil
}

func (rf *RandomForest) Reset() {
	rf.Trees = nil
}
