package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

const coalesceScenario = "../../../internal/scenario/testdata/coalesce.yaml"

func runCommand(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCommand(io.Discard)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestReplayPrintsJSON(t *testing.T) {
	out, err := runCommand(t, "replay", coalesceScenario)
	require.NoError(t, err)

	var report struct {
		Steps       int
		Handles     map[string]string
		DetailedMap map[string]any
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 8, report.Steps)
	require.Contains(t, report.Handles, "vertices")
	require.Contains(t, report.DetailedMap, "Blocks")
}

func TestReplayHumanSummary(t *testing.T) {
	out, err := runCommand(t, "--log-level", "debug", "replay", "--human", coalesceScenario)
	require.NoError(t, err)
	require.Contains(t, out, "steps:        8")
	require.Contains(t, out, "live handles: 3")
}

func TestReplayErrors(t *testing.T) {
	testCases := map[string][]string{
		"NoScenario":      {"replay"},
		"MissingScenario": {"replay", "missing.yaml"},
		"BadLogLevel":     {"--log-level", "loud", "replay", coalesceScenario},
		"TooManyArgs":     {"replay", coalesceScenario, coalesceScenario},
	}

	for name, args := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := runCommand(t, args...)
			require.Error(t, err)
		})
	}
}
