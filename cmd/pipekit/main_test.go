package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/errors"
)

// workspace writes a config pointing at a temp pipelines dir that holds the
// sample definitions plus any extra files.
func workspace(t *testing.T, extra map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	pipelines := filepath.Join(dir, "pipelines")
	require.NoError(t, os.Mkdir(pipelines, 0o755))

	for _, name := range []string{"prepare.yaml", "wordfreq.yaml"} {
		data, err := os.ReadFile(filepath.Join("pipelines", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(pipelines, name), data, 0o644))
	}
	for name, body := range extra {
		require.NoError(t, os.WriteFile(filepath.Join(pipelines, name), []byte(body), 0o644))
	}

	cfg := "name: pipekit\nenvironment: development\npipelines:\n  dirs: [" + pipelines + "]\n  top_n: 2\n"
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := (&cli{logOutput: io.Discard}).command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	cfg := workspace(t, nil)
	out, err := execute(t, "", "list", "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "PIPE")
	assert.Regexp(t, `normalize\s+input\s+normalized`, out)
	assert.Regexp(t, `top\s+counts\s+top`, out)
	assert.Contains(t, out, "Pipelines: prepare, wordfreq")
}

func TestCheckCommand(t *testing.T) {
	cfg := workspace(t, map[string]string{
		"broken.yaml": "name: broken\npipes: [normalize, count]\n",
	})

	out, err := execute(t, "", "check", "wordfreq", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "wordfreq ok: normalize -> tokenize -> count -> top\n", out)

	_, err = execute(t, "", "check", "broken", "--config", cfg)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingContext))
}

func TestCheckCommandUnknownPipe(t *testing.T) {
	cfg := workspace(t, map[string]string{
		"typo.yaml": "name: typo\npipes: [normalise]\n",
	})
	_, err := execute(t, "", "check", "typo", "--config", cfg)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownPipe))
}

func TestRunCommand(t *testing.T) {
	cfg := workspace(t, nil)
	out, err := execute(t, "", "run", "wordfreq", "--config", cfg, "--input", "b a B c a b")
	require.NoError(t, err)

	var snapshot struct {
		Input  string         `json:"input"`
		Tokens []string       `json:"tokens"`
		Counts map[string]int `json:"counts"`
		Top    []struct {
			Word  string `json:"word"`
			Count int    `json:"count"`
		} `json:"top"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Equal(t, "b a B c a b", snapshot.Input)
	assert.Len(t, snapshot.Tokens, 6)
	assert.Equal(t, map[string]int{"a": 2, "b": 3, "c": 1}, snapshot.Counts)
	require.Len(t, snapshot.Top, 2)
	assert.Equal(t, "b", snapshot.Top[0].Word)
	assert.Equal(t, "a", snapshot.Top[1].Word)
}

func TestRunCommandReadsStdin(t *testing.T) {
	cfg := workspace(t, nil)
	out, err := execute(t, "hello hello world", "run", "prepare", "--config", cfg)
	require.NoError(t, err)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Equal(t, "hello hello world", snapshot["normalized"])
	assert.NotContains(t, snapshot, "counts")
}

func TestRunCommandFailure(t *testing.T) {
	cfg := workspace(t, map[string]string{
		"skip.yaml": "name: skip\npipes: [tokenize]\n",
	})
	out, err := execute(t, "", "run", "skip", "--config", cfg, "--input", "x")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingContext))
	assert.Empty(t, out)
}

func TestRunCommandUnknownPipeline(t *testing.T) {
	cfg := workspace(t, nil)
	_, err := execute(t, "", "run", "nope", "--config", cfg, "--input", "x")
	assert.True(t, errors.HasCode(err, errors.ErrCodeDefinitionNotFound))
}

func TestRunCommandContextID(t *testing.T) {
	cfg := workspace(t, nil)
	_, err := execute(t, "", "run", "prepare", "--config", cfg, "--input", "x", "--context-id", "not-a-uuid")
	require.Error(t, err)

	_, err = execute(t, "", "run", "prepare", "--config", cfg, "--input", "x",
		"--context-id", "6f1c1f4e-8a57-4f7b-9d3c-2b1a0e5d7c11")
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version", "--config", "/does/not/exist.yml")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestSampleConfig(t *testing.T) {
	cfg, err := config.Load[RunnerConfig](serviceName,
		config.WithConfigFile("config.yml"),
		config.WithDefaults(loaderDefaults),
	)
	require.NoError(t, err)

	assert.Equal(t, "pipekit", cfg.Name)
	assert.Equal(t, []string{"./cmd/pipekit/pipelines", "./pipelines"}, cfg.Pipelines.Dirs)
	assert.Equal(t, 10, cfg.Pipelines.TopN)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
	assert.Equal(t, "15s", cfg.Metrics.Interval.String())
}

func TestRunnerConfigValidate(t *testing.T) {
	valid := func() *RunnerConfig {
		c := &RunnerConfig{}
		c.ApplyDefaults()
		c.Tracing.SampleRate = 0.5
		return c
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(*RunnerConfig){
		"sample rate":   func(c *RunnerConfig) { c.Tracing.SampleRate = 1.5 },
		"endpoint":      func(c *RunnerConfig) { c.Metrics.Endpoint = "no port" },
		"empty dir":     func(c *RunnerConfig) { c.Pipelines.Dirs = []string{""} },
		"duplicate dir": func(c *RunnerConfig) { c.Pipelines.Dirs = []string{"a", "a"} },
		"negative top":  func(c *RunnerConfig) { c.Pipelines.TopN = -1 },
		"environment":   func(c *RunnerConfig) { c.Environment = "qa" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestPrintError(t *testing.T) {
	cfg := workspace(t, nil)
	_, err := execute(t, "", "run", "nope", "--config", cfg, "--input", "x")
	require.Error(t, err)

	var buf bytes.Buffer
	printError(&buf, err)

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, errors.ErrCodeDefinitionNotFound, resp.Error.Code)
	assert.Equal(t, "nope", resp.Error.Details["definition"])
}
