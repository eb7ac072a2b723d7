package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary is what a finished run prints on the console.
type Summary struct {
	RunID     string
	Scores    []ModelScores
	Reported  string
	Alpha     float64
	TestScore float64
	Top       []Coefficient
	Outputs   []string
}

func PrintSummary(w io.Writer, s Summary) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	cyan.Fprintf(w, "\nCross-validation (run %s)\n", s.RunID)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Model", "Fit s", "Score s", "Test R²", "Train R²"})
	for _, m := range s.Scores {
		t.AppendRow(table.Row{
			m.Name,
			fmt.Sprintf("%.4f", m.Scores.FitTime),
			fmt.Sprintf("%.4f", m.Scores.ScoreTime),
			fmt.Sprintf("%.4f", m.Scores.TestScore),
			fmt.Sprintf("%.4f", m.Scores.TrainScore),
		})
	}
	t.Render()

	cyan.Fprintln(w, "\nHeld-out test set")
	fmt.Fprintf(w, "  %s (alpha %g): R² %s\n", s.Reported, s.Alpha, green(fmt.Sprintf("%.4f", s.TestScore)))

	if len(s.Top) > 0 {
		cyan.Fprintln(w, "\nCoefficients")
		for _, c := range s.Top {
			value := fmt.Sprintf("%12.2f", c.Weight)
			if c.Weight < 0 {
				value = yellow(value)
			}
			fmt.Fprintf(w, "  %-28s %s\n", c.Feature, value)
		}
	}

	if len(s.Outputs) > 0 {
		cyan.Fprintln(w, "\nWrote")
		for _, p := range s.Outputs {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
}
