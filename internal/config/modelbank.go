package config

import (
	_ "embed"

	apperr "housingassess/internal/errors"
	"housingassess/internal/models"
	"housingassess/internal/preprocessing"

	"gopkg.in/yaml.v3"
)

//go:embed modelbank.yaml
var defaultModelBank []byte

type ModelBank struct {
	Preprocessing PreprocessingSettings `yaml:"preprocessing"`
	Models        []ModelEntry          `yaml:"models"`
}

type PreprocessingSettings struct {
	CategoricalFill string  `yaml:"categorical_fill"`
	NumericalFill   float64 `yaml:"numerical_fill"`
	ScaleNumeric    string  `yaml:"scale_numeric"`
}

// ModelEntry is one column of the cross-validation report.
type ModelEntry struct {
	Name      string `yaml:"name"`
	Algorithm string `yaml:"algorithm"`
	Folds     int    `yaml:"folds"`
	Parallel  bool   `yaml:"parallel"`
	// Reported marks the model refit on the full training set and scored
	// against the test set.
	Reported bool `yaml:"reported"`

	Strategy       string    `yaml:"strategy,omitempty"`
	Alphas         []float64 `yaml:"alphas,omitempty"`
	NEstimators    int       `yaml:"n_estimators,omitempty"`
	MaxDepth       int       `yaml:"max_depth,omitempty"`
	LearningRate   float64   `yaml:"learning_rate,omitempty"`
	Lambda         float64   `yaml:"lambda,omitempty"`
	MinChildWeight float64   `yaml:"min_child_weight,omitempty"`
	Seed           int64     `yaml:"seed,omitempty"`
	MaxWorkers     int       `yaml:"max_workers,omitempty"`
}

// LoadModelBank parses the embedded default document.
func LoadModelBank() (*ModelBank, error) {
	return ParseModelBank(defaultModelBank)
}

func ParseModelBank(raw []byte) (*ModelBank, error) {
	var bank ModelBank
	if err := yaml.Unmarshal(raw, &bank); err != nil {
		return nil, apperr.WithCode(apperr.CodeInternalError, err, "failed to parse model bank")
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (b *ModelBank) Validate() error {
	if len(b.Models) == 0 {
		return apperr.New(apperr.CodeInternalError, "model bank is empty")
	}
	if !preprocessing.KnownScaling(b.Preprocessing.ScaleNumeric) {
		return apperr.Newf(apperr.CodeInternalError, "unknown scale_numeric %q", b.Preprocessing.ScaleNumeric)
	}

	seen := make(map[string]bool)
	reported := 0
	for _, m := range b.Models {
		if m.Name == "" {
			return apperr.New(apperr.CodeInternalError, "model bank entry without a name")
		}
		if seen[m.Name] {
			return apperr.Newf(apperr.CodeInternalError, "duplicate model name %q", m.Name)
		}
		seen[m.Name] = true

		if !models.KnownAlgorithm(m.Algorithm) {
			return apperr.Newf(apperr.CodeInternalError, "model %s: unknown algorithm %q", m.Name, m.Algorithm)
		}
		if m.Folds < 2 {
			return apperr.Newf(apperr.CodeInternalError, "model %s: folds must be at least 2, got %d", m.Name, m.Folds)
		}
		if m.MaxWorkers < 0 {
			return apperr.Newf(apperr.CodeInternalError, "model %s: max_workers must not be negative, got %d", m.Name, m.MaxWorkers)
		}
		if m.Reported {
			reported++
			if m.Algorithm != models.AlgorithmRidgeCV {
				return apperr.Newf(apperr.CodeInternalError, "model %s: only a ridgecv model can be reported, got %s", m.Name, m.Algorithm)
			}
		}
	}

	if reported != 1 {
		return apperr.Newf(apperr.CodeInternalError, "model bank needs exactly one reported model, found %d", reported)
	}
	return nil
}

// Reported returns the entry scored against the test set.
func (b *ModelBank) Reported() ModelEntry {
	for _, m := range b.Models {
		if m.Reported {
			return m
		}
	}
	return ModelEntry{}
}

// Names returns the entry names in document order.
func (b *ModelBank) Names() []string {
	names := make([]string, len(b.Models))
	for i, m := range b.Models {
		names[i] = m.Name
	}
	return names
}

func (b *ModelBank) PreprocessingOptions() preprocessing.Options {
	opts := preprocessing.DefaultOptions()
	if b.Preprocessing.CategoricalFill != "" {
		opts.CategoricalFill = b.Preprocessing.CategoricalFill
	}
	opts.NumericalFill = b.Preprocessing.NumericalFill
	if b.Preprocessing.ScaleNumeric != "" {
		opts.Scaling = b.Preprocessing.ScaleNumeric
	}
	return opts
}

// ModelConfig converts the entry into a factory config.
func (m ModelEntry) ModelConfig() models.ModelConfig {
	cfg := models.DefaultConfig(m.Algorithm)

	if m.Strategy != "" {
		cfg.Strategy = m.Strategy
	}
	if len(m.Alphas) > 0 {
		cfg.Alphas = m.Alphas
	}
	if m.NEstimators > 0 {
		cfg.NTrees = m.NEstimators
	}
	if m.MaxDepth > 0 {
		cfg.MaxDepth = m.MaxDepth
	}
	if m.LearningRate > 0 {
		cfg.LearningRate = m.LearningRate
	}
	if m.Lambda > 0 {
		cfg.Lambda = m.Lambda
	}
	if m.MinChildWeight > 0 {
		cfg.MinChildWeight = m.MinChildWeight
	}
	if m.Seed != 0 {
		cfg.Seed = m.Seed
	}
	if m.MaxWorkers > 0 {
		cfg.MaxWorkers = m.MaxWorkers
	}

	return cfg
}
