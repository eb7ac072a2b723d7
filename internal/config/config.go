// Package config holds the run configuration and the model bank document.
package config

import (
	"strings"

	apperr "housingassess/internal/errors"
)

// Flag names of the five required paths.
const (
	FlagTrain     = "in_file1"
	FlagTest      = "in_file2"
	FlagCVScores  = "out_file1"
	FlagTestScore = "out_file2"
	FlagCoefs     = "out_file3"
)

// Config is the parsed command line of one run.
type Config struct {
	TrainPath     string
	TestPath      string
	CVScoresPath  string
	TestScorePath string
	CoefsPath     string
}

// Validate returns a usage error naming every missing path.
func (c Config) Validate() error {
	var missing []string
	for _, f := range []struct {
		flag  string
		value string
	}{
		{FlagTrain, c.TrainPath},
		{FlagTest, c.TestPath},
		{FlagCVScores, c.CVScoresPath},
		{FlagTestScore, c.TestScorePath},
		{FlagCoefs, c.CoefsPath},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, "--"+f.flag)
		}
	}

	if len(missing) > 0 {
		return apperr.Newf(apperr.CodeUsageError, "required flag(s) not set: %s", strings.Join(missing, ", "))
	}
	return nil
}
