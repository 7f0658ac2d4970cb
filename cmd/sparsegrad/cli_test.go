package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sparsegrad "+version+"\n", out)
}

func TestFuncs(t *testing.T) {
	out, err := run(t, "funcs")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "arctanh")
	assert.Contains(t, out, "power")
}

func TestFuncs_Unary(t *testing.T) {
	out, err := run(t, "funcs", "--unary")
	require.NoError(t, err)
	assert.Contains(t, out, "arctanh")
	assert.NotContains(t, out, "power")
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		assert.Equal(t, "1", strings.Fields(line)[1], line)
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("SPARSEGRAD_WORKERS", "3")
	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "SPARSEGRAD_WORKERS")
	assert.Contains(t, out, "SPARSEGRAD_DEBUG")
}

func TestJacobian(t *testing.T) {
	cases := []struct {
		args []string
		nnz  string
	}{
		{[]string{"jacobian", "--problem", "poisson", "-n", "5"}, "13"},
		{[]string{"jacobian", "--problem", "chain", "-n", "4"}, "4"},
		{[]string{"jacobian", "--problem", "branch", "-n", "6"}, "6"},
		{[]string{"jacobian", "--problem", "poisson", "-n", "5", "--sparsity"}, "13"},
	}

	for _, tt := range cases {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 2)
			fields := strings.Fields(lines[1])
			require.Len(t, fields, 8)
			assert.Equal(t, tt.args[2], fields[0])
			assert.Equal(t, tt.nnz, fields[4])
		})
	}
}

func TestJacobian_Entries(t *testing.T) {
	out, err := run(t, "jacobian", "--problem", "chain", "-n", "3", "--entries")
	require.NoError(t, err)
	assert.Contains(t, out, "ROW")
	// header, summary, blank line, entry header, three diagonal entries
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 7)
}

func TestJacobian_Errors(t *testing.T) {
	_, err := run(t, "jacobian", "--problem", "heat")
	assert.ErrorContains(t, err, "unknown problem")

	_, err = run(t, "jacobian", "-n", "0")
	assert.ErrorContains(t, err, "n must be positive")
}
