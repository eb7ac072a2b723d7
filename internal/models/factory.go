package models

import (
	"fmt"
)

const (
	AlgorithmDummy        = "dummy"
	AlgorithmRidgeCV      = "ridgecv"
	AlgorithmRandomForest = "random_forest"
	AlgorithmXGBoost      = "xgboost"
)

type ModelConfig struct {
	Algorithm string

	Strategy string
	Alphas   []float64

	NTrees          int
	MaxDepth        int
	MinSamplesSplit int
	LearningRate    float64
	Lambda          float64
	MinChildWeight  float64
	Seed            int64
	MaxWorkers      int
}

// KnownAlgorithm reports whether CreateModel can build algorithm.
func KnownAlgorithm(algorithm string) bool {
	switch algorithm {
	case AlgorithmDummy, AlgorithmRidgeCV, AlgorithmRandomForest, AlgorithmXGBoost:
		return true
	}
	return false
}

func CreateModel(config ModelConfig) (Regressor, error) {
	switch config.Algorithm {
	case AlgorithmDummy:
		if config.Strategy == "" {
			config.Strategy = StrategyMean
		}
		d, err := NewDummyRegressor(config.Strategy)
		if err != nil {
			return nil, err
		}
		return d, nil

	case AlgorithmRidgeCV:
		if len(config.Alphas) == 0 {
			config.Alphas = DefaultAlphas()
		}
		r, err := NewRidgeCV(config.Alphas)
		if err != nil {
			return nil, err
		}
		return r, nil

	case AlgorithmRandomForest:
		if config.NTrees <= 0 {
			config.NTrees = 100
		}
		if config.MinSamplesSplit <= 0 {
			config.MinSamplesSplit = 2
		}
		rf := NewRandomForest(config.NTrees, config.MaxDepth, config.MinSamplesSplit, config.Seed)
		if config.MaxWorkers > 0 {
			rf.MaxWorkers = config.MaxWorkers
		}
		return rf, nil

	case AlgorithmXGBoost:
		if config.NTrees <= 0 {
			config.NTrees = 100
		}
		if config.MaxDepth <= 0 {
			config.MaxDepth = 6
		}
		if config.LearningRate <= 0 {
			config.LearningRate = 0.3
		}
		if config.MinChildWeight <= 0 {
			config.MinChildWeight = 1
		}
		gb := NewGradientBoosting(config.NTrees, config.MaxDepth, config.LearningRate, config.Seed)
		gb.Lambda = config.Lambda
		gb.MinChildWeight = config.MinChildWeight
		gb.Params["reg_lambda"] = gb.Lambda
		gb.Params["min_child_weight"] = gb.MinChildWeight
		return gb, nil

	default:
		return nil, fmt.Errorf("unknown algorithm: %s", config.Algorithm)
	}
}

func DefaultConfig(algorithm string) ModelConfig {
	config := ModelConfig{Algorithm: algorithm}

	switch algorithm {
	case AlgorithmDummy:
		config.Strategy = StrategyMean
	case AlgorithmRidgeCV:
		config.Alphas = DefaultAlphas()
	case AlgorithmRandomForest:
		config.NTrees = 70
		config.MaxDepth = 5
		config.MinSamplesSplit = 2
		config.Seed = 123
	case AlgorithmXGBoost:
		config.NTrees = 70
		config.MaxDepth = 5
		config.LearningRate = 0.3
		config.Lambda = 1
		config.MinChildWeight = 1
		config.Seed = 123
	}

	return config
}
