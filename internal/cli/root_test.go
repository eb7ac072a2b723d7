package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"housingassess/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecuteUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no flags",
			args:    nil,
			wantErr: "--in_file1, --in_file2, --out_file1, --out_file2, --out_file3",
		},
		{
			name:    "some flags",
			args:    []string{"--in_file1=a.csv", "--in_file2=b.csv", "--out_file1=c.csv"},
			wantErr: "--out_file2, --out_file3",
		},
		{
			name:    "unknown flag",
			args:    []string{"--in_file4=x"},
			wantErr: "unknown flag",
		},
		{
			name:    "positional argument",
			args:    []string{"train.csv"},
			wantErr: "unexpected arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, tt.wantErr)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestExecuteRun(t *testing.T) {
	dir := t.TempDir()
	train := testkit.WriteHousing(t, dir, "train.csv", testkit.DefaultOptions(120, 1))
	test := testkit.WriteHousing(t, dir, "test.csv", testkit.DefaultOptions(30, 2))
	out := filepath.Join(dir, "out")

	code, stdout, stderr := execute(
		"--in_file1="+train,
		"--in_file2="+test,
		"--out_file1="+filepath.Join(out, "cv.csv"),
		"--out_file2="+filepath.Join(out, "test.csv"),
		"--out_file3="+filepath.Join(out, "coef.csv"),
	)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "Cross-validation")
	assert.Contains(t, stdout, "XGB_Regression")
	assert.Contains(t, stderr, "wrote report")
	assert.FileExists(t, filepath.Join(out, "coef.csv"))
}

func TestExecuteDataError(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := execute(
		"--in_file1="+filepath.Join(dir, "missing.csv"),
		"--in_file2="+filepath.Join(dir, "missing.csv"),
		"--out_file1="+filepath.Join(dir, "a.csv"),
		"--out_file2="+filepath.Join(dir, "b.csv"),
		"--out_file3="+filepath.Join(dir, "c.csv"),
		"-q",
	)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "DATA_ERROR")
	assert.NotContains(t, stderr, "Usage:")
}
