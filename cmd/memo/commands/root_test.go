package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/cmd/memo/commands"
)

type stubApp struct {
	dumpCalls  []string
	statsCalls []string
	err        error
}

func (s *stubApp) Dump(_ context.Context, configPath string, out io.Writer) error {
	s.dumpCalls = append(s.dumpCalls, configPath)
	_, _ = io.WriteString(out, "dumped\n")
	return s.err
}

func (s *stubApp) Stats(_ context.Context, configPath string, out io.Writer) error {
	s.statsCalls = append(s.statsCalls, configPath)
	_, _ = io.WriteString(out, "stats\n")
	return s.err
}

func execute(t *testing.T, a commands.Application, args ...string) (string, string, error) {
	t.Helper()
	cli := commands.New(a)
	var out, errOut bytes.Buffer
	cli.SetArgs(args)
	cli.SetOutput(&out, &errOut)
	err := cli.Execute(context.Background())
	return out.String(), errOut.String(), err
}

func TestDumpCommand(t *testing.T) {
	a := &stubApp{}

	out, _, err := execute(t, a, "dump")
	require.NoError(t, err)

	assert.Equal(t, []string{"memo.yaml"}, a.dumpCalls)
	assert.Contains(t, out, "dumped")
}

func TestDumpCommandWithConfigFlag(t *testing.T) {
	a := &stubApp{}

	_, _, err := execute(t, a, "dump", "--config", "custom.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"custom.yaml"}, a.dumpCalls)
}

func TestStatsCommand(t *testing.T) {
	a := &stubApp{}

	out, _, err := execute(t, a, "stats", "-c", "other.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"other.yaml"}, a.statsCalls)
	assert.Contains(t, out, "stats")
}

func TestCommandErrorPropagates(t *testing.T) {
	a := &stubApp{err: errors.New("cache unreadable")}

	_, _, err := execute(t, a, "dump")
	require.Error(t, err)
	assert.ErrorContains(t, err, "cache unreadable")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, &stubApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "memo version")
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := execute(t, &stubApp{}, "frobnicate")
	require.Error(t, err)
}
