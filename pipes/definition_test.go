package pipes_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/pipes"
	"github.com/kbukum/pipekit/pipes/pipestest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func flowRegistry(names ...string) *pipes.Registry {
	reg := pipes.NewRegistry()
	for _, n := range names {
		reg.MustRegister(n, member(n))
	}
	return reg
}

func TestParseDefinition(t *testing.T) {
	def, err := pipes.ParseDefinition([]byte(`
name: family
description: three generations
includes: [elders]
pipes: [Parent, Child]
`))
	require.NoError(t, err)
	assert.Equal(t, &pipes.Definition{
		Name:        "family",
		Description: "three generations",
		Includes:    []string{"elders"},
		Pipes:       []string{"Parent", "Child"},
	}, def)
}

func TestParseDefinition_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"missing name":  "pipes: [a]",
		"blank pipe":    "name: x\npipes: [a, '']",
		"unknown field": "name: x\nnodes: [a]",
		"bad yaml":      "name: [x",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := pipes.ParseDefinition([]byte(doc))
			require.ErrorIs(t, err, pipes.ErrInvalidDefinition)
		})
	}
}

func TestLoadDefinitionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.yaml")
	writeFile(t, path, "name: family\npipes: [Parent]\n")

	def, err := pipes.LoadDefinitionFile(path)
	require.NoError(t, err)
	assert.Equal(t, "family", def.Name)

	_, err = pipes.LoadDefinitionFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileLoader(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(first, "alpha.yaml"), "name: alpha\npipes: [A]\n")
	writeFile(t, filepath.Join(second, "beta.yml"), "name: beta\npipes: [B]\n")
	writeFile(t, filepath.Join(second, "nested", "gamma.yaml"), "name: gamma\npipes: [C]\n")
	writeFile(t, filepath.Join(second, "README.md"), "not a definition")

	loader := pipes.NewFileLoader(first, second)
	for _, name := range []string{"alpha", "beta", "gamma"} {
		def, err := loader.Load(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, def.Name)
	}

	_, err := loader.Load("delta")
	assert.Equal(t, errors.ErrCodeDefinitionNotFound, errors.CodeOf(err))

	assert.Equal(t, []string{"alpha", "beta"}, loader.List())
	assert.Equal(t, []string{first, second}, loader.Dirs())
}

func TestFileLoader_NameMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "alpha.yaml"), "name: omega\npipes: [A]\n")

	_, err := pipes.NewFileLoader(dir).Load("alpha")
	require.ErrorIs(t, err, pipes.ErrInvalidDefinition)
}

func TestFileLoader_BrokenFileReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "alpha.yaml"), "name: [")

	_, err := pipes.NewFileLoader(dir).Load("alpha")
	require.ErrorIs(t, err, pipes.ErrInvalidDefinition)
}

func TestResolve_IncludesInOrder(t *testing.T) {
	loader := pipes.NewMapLoader(
		&pipes.Definition{Name: "elders", Pipes: []string{"Grandparent"}},
		&pipes.Definition{Name: "parents", Includes: []string{"elders"}, Pipes: []string{"Parent"}},
	)
	def := &pipes.Definition{Name: "family", Includes: []string{"parents"}, Pipes: []string{"Child"}}
	reg := flowRegistry("Grandparent", "Parent", "Child")

	p, err := pipes.Resolve(def, reg, loader)
	require.NoError(t, err)
	assert.Equal(t, "Grandparent|Parent|Child", p.Name())

	c := pipestest.NewFlowContext(nil)
	_, err = p.Call(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grandparent", "Parent", "Child"}, pipestest.FlowOf(c).Items())
}

func TestResolve_RepeatedIncludeRunsTwice(t *testing.T) {
	loader := pipes.NewMapLoader(&pipes.Definition{Name: "step", Pipes: []string{"A"}})
	def := &pipes.Definition{Name: "twice", Includes: []string{"step", "step"}}

	p, err := pipes.Resolve(def, flowRegistry("A"), loader)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
}

func TestResolve_CircularInclude(t *testing.T) {
	loader := pipes.NewMapLoader(
		&pipes.Definition{Name: "a", Includes: []string{"b"}},
		&pipes.Definition{Name: "b", Includes: []string{"a"}},
	)
	a, _ := loader.Load("a")

	_, err := pipes.Resolve(a, pipes.NewRegistry(), loader)
	require.ErrorIs(t, err, pipes.ErrInvalidDefinition)
	assert.Contains(t, err.Error(), "a -> b -> a")
}

func TestResolve_UnknownPipe(t *testing.T) {
	def := &pipes.Definition{Name: "broken", Pipes: []string{"A", "ghost"}}

	_, err := pipes.Resolve(def, flowRegistry("A"), nil)
	require.ErrorIs(t, err, pipes.ErrUnknownPipe)
	appErr, _ := errors.AsAppError(err)
	assert.Equal(t, "broken", appErr.Detail("definition"))
}

func TestResolve_MissingInclude(t *testing.T) {
	def := &pipes.Definition{Name: "x", Includes: []string{"nowhere"}}

	_, err := pipes.Resolve(def, pipes.NewRegistry(), pipes.NewMapLoader())
	assert.Equal(t, errors.ErrCodeDefinitionNotFound, errors.CodeOf(err))

	_, err = pipes.Resolve(def, pipes.NewRegistry(), nil)
	require.ErrorIs(t, err, pipes.ErrInvalidDefinition)
}
