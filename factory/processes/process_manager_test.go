package processes

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsmider/reactorgen/errors"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}
	return sh
}

func TestRunCapturesOutput(t *testing.T) {
	sh := requireShell(t)

	res, err := Run(context.Background(), Command{
		Name: sh,
		Args: []string{"-c", "echo one; echo two; echo oops >&2"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, []string{"one", "two"}, res.Stdout)
	assert.Equal(t, []string{"oops"}, res.Stderr)
}

func TestRunNonZeroExit(t *testing.T) {
	sh := requireShell(t)

	res, err := Run(context.Background(), Command{
		Name: sh,
		Args: []string{"-c", "echo 'proto: syntax error' >&2; exit 3"},
	}, nil)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, err.Error(), "proto: syntax error")
}

func TestRunKillsOnTimeout(t *testing.T) {
	sh := requireShell(t)

	start := time.Now()
	_, err := Run(context.Background(), Command{
		Name:    sh,
		Args:    []string{"-c", "sleep 10"},
		Timeout: 100 * time.Millisecond,
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsTimeoutError(err), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunTimeoutWithChildHoldingOutput(t *testing.T) {
	sh := requireShell(t)

	// The background sleep inherits stdout and outlives the killed shell.
	start := time.Now()
	_, err := Run(context.Background(), Command{
		Name:    sh,
		Args:    []string{"-c", "sleep 10 & sleep 10"},
		Timeout: 100 * time.Millisecond,
	}, nil)
	assert.True(t, errors.IsTimeoutError(err), "got %v", err)
	assert.Less(t, time.Since(start), WaitDelay+3*time.Second)
}

func TestRunSucceedsWhenChildKeepsOutputOpen(t *testing.T) {
	sh := requireShell(t)
	old := WaitDelay
	WaitDelay = 200 * time.Millisecond
	t.Cleanup(func() { WaitDelay = old })

	start := time.Now()
	res, err := Run(context.Background(), Command{
		Name: sh,
		Args: []string{"-c", "sleep 10 & echo started"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"started"}, res.Stdout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLineWriter(t *testing.T) {
	var lines []string
	w := &lineWriter{emit: func(s string) { lines = append(lines, s) }}

	_, _ = w.Write([]byte("one\r\ntw"))
	_, _ = w.Write([]byte("o\nthree"))
	assert.Equal(t, []string{"one", "two"}, lines)

	w.flush()
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestRunMissingBinary(t *testing.T) {
	_, err := Run(context.Background(), Command{Name: "reactorgen-no-such-binary"}, nil)
	assert.Error(t, err)
}

func TestSplitArgs(t *testing.T) {
	args, err := SplitArgs(`--experimental_allow_proto3_optional -I "third party/protos"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"--experimental_allow_proto3_optional", "-I", "third party/protos"}, args)

	_, err = SplitArgs(`"unterminated`)
	assert.Error(t, err)
}

func TestCommandString(t *testing.T) {
	cmd := Command{Name: "protoc", Args: []string{"--proto_path=a b", "order.proto"}}
	assert.Equal(t, `protoc '--proto_path=a b' order.proto`, cmd.String())
}

func TestExecutableName(t *testing.T) {
	if runtime.GOOS == "windows" {
		assert.Equal(t, "protoc.exe", ExecutableName("protoc"))
		assert.Equal(t, "protoc.exe", ExecutableName("protoc.exe"))
		return
	}
	assert.Equal(t, "protoc", ExecutableName("protoc"))
}
