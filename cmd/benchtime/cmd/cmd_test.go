package cmd

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/benchtime/pkg/report"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestFormatCommand(t *testing.T) {
	out, _, err := execute(t, "format", "0.0025", "--loops", "1", "--precision", "3")
	require.NoError(t, err)
	assert.Equal(t, "2.5 msec\n", out)

	out, _, err = execute(t, "format", "0.5", "--loops", "1000", "--precision", "3")
	require.NoError(t, err)
	assert.Equal(t, "500 usec\n", out)

	out, _, err = execute(t, "format", "30", "--loops", "10", "--precision", "3")
	require.NoError(t, err)
	assert.Equal(t, "30 sec\n", out)
}

func TestFormatCommandRejectsBadInput(t *testing.T) {
	_, _, err := execute(t, "format", "abc", "--loops", "1")
	assert.Error(t, err)

	_, _, err = execute(t, "format", "1", "--loops", "0")
	assert.Error(t, err)
	formatLoops = 1

	for _, arg := range []string{"NaN", "Inf", "-Inf"} {
		out, _, err := execute(t, "format", arg, "--loops", "5")
		assert.ErrorContains(t, err, "must be finite", arg)
		assert.Empty(t, out)
	}
}

func TestBlockCommand(t *testing.T) {
	requireBinary(t, "echo")

	out, errOut, err := execute(t, "block", "--precision", "3", "--label", "greet", "--", "echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
	assert.True(t, strings.HasPrefix(errOut, "Executed 'greet' in: "), errOut)
}

func TestAutoCommandJSON(t *testing.T) {
	requireBinary(t, "true")

	out, _, err := execute(t, "auto", "-o", "json", "--max-exponent", "1", "--repeat", "1",
		"--precision", "3", "--verbose=false", "--", "true")
	require.NoError(t, err)

	var c report.Calibration
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, 10, c.Loops)
	assert.Equal(t, 1, c.Repeat)
	assert.Equal(t, "true", c.Target)
	assert.Len(t, c.Trials, 1)
}

func TestAutoCommandFailingTarget(t *testing.T) {
	requireBinary(t, "false")

	_, errOut, err := execute(t, "auto", "-o", "text", "--max-exponent", "1", "--repeat", "1", "--", "false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calibration aborted")
	assert.Contains(t, errOut, "false exited with code 1")
}

func TestAutoCommandHoldNeedsMetricsAddr(t *testing.T) {
	defer autoCmd.Flags().Set("hold", "false")

	_, _, err := execute(t, "auto", "--hold", "--", "true")
	assert.ErrorContains(t, err, "--hold needs --metrics-addr")
}

func TestAutoCommandDisableGC(t *testing.T) {
	requireBinary(t, "true")
	defer func() { autoDisableGC = false }()

	out, _, err := execute(t, "auto", "-o", "text", "--max-exponent", "1", "--repeat", "1",
		"--verbose=false", "--disable-gc", "--", "true")
	require.NoError(t, err)
	assert.Contains(t, out, "10 loops, best of 1:")
}
