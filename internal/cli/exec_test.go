package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Output(t *testing.T) {
	cmd := Command{
		Name: "sh",
		Args: []string{"-c", "echo \"$GREETING\""},
		Env:  []string{"GREETING=hello"},
	}

	out, err := cmd.Output(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestCommand_RunExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := Command{
		Name:   "sh",
		Args:   []string{"-c", "echo out; echo boom >&2; exit 3"},
		Dir:    t.TempDir(),
		Stdout: &stdout,
		Stderr: &stderr,
	}

	err := cmd.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "boom\n", stderr.String())
	assert.Contains(t, err.Error(), "exit 3")
	assert.Contains(t, err.Error(), "boom")
}

func TestCommand_NotFound(t *testing.T) {
	cmd := Command{Name: "cdkdeploy-no-such-binary", Stderr: &bytes.Buffer{}}

	err := cmd.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, -1, ExitCode(err))
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "cdk deploy A B", Command{Name: "cdk", Args: []string{"deploy", "A", "B"}}.String())
	assert.Equal(t, "cdk", Command{Name: "cdk"}.String())
}
