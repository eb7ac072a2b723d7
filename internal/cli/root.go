// Package cli provides the assess command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"housingassess/internal/config"
	apperr "housingassess/internal/errors"
	"housingassess/internal/experiment"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit statuses.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// NewRootCmd returns the assess command writing its summary to stdout and
// logs to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		cfg     config.Config
		verbose bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Cross-validate housing assessment regressors and report ridge coefficients",
		Long: `assess fits a dummy baseline, ridge regression with a cross-validated
penalty, a random forest and gradient-boosted trees on the training file,
then writes three CSV reports: averaged cross-validation scores, the ridge
R² on the test file and the ridge coefficients ranked ascending.`,
		Example: `  assess --in_file1=train.csv --in_file2=test.csv \
    --out_file1=out/cv_scores.csv --out_file2=out/test_score.csv \
    --out_file3=out/coefficients.csv`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return apperr.UsageError(fmt.Sprintf("unexpected arguments: %v", args))
			}
			return nil
		},
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			if quiet {
				level = slog.LevelError
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			runner, err := experiment.NewRunner(cfg, experiment.Options{
				Logger: logger,
				Stdout: cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			_, err = runner.Run(cmd.Context())
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.WithCode(apperr.CodeUsageError, err, "invalid flags")
	})

	flags := cmd.Flags()
	flags.SortFlags = false
	addPathFlags(flags, &cfg)
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "log errors only")

	return cmd
}

// addPathFlags binds the five required paths. None has a default.
func addPathFlags(flags *pflag.FlagSet, cfg *config.Config) {
	flags.StringVar(&cfg.TrainPath, config.FlagTrain, "", "training data CSV")
	flags.StringVar(&cfg.TestPath, config.FlagTest, "", "test data CSV")
	flags.StringVar(&cfg.CVScoresPath, config.FlagCVScores, "", "output CSV for averaged cross-validation scores")
	flags.StringVar(&cfg.TestScorePath, config.FlagTestScore, "", "output CSV for the ridge test-set R²")
	flags.StringVar(&cfg.CoefsPath, config.FlagCoefs, "", "output CSV for ranked ridge coefficients")
}

// Execute runs the command with args and returns the process exit status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "Error (%s): %v\n", apperr.GetCode(err), err)
	if apperr.HasCode(err, apperr.CodeUsageError) {
		fmt.Fprint(stderr, cmd.UsageString())
		return ExitUsage
	}
	return ExitError
}
