package pipes

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/validation"
)

// Definition is a pipeline declared in YAML:
//
//	name: wordfreq
//	description: count the most frequent words
//	includes: [prepare]
//	pipes: [count, top]
//
// Includes are resolved first, in order, then the definition's own pipes.
type Definition struct {
	// Name is the definition identifier used by includes and loaders.
	Name string `yaml:"name" validate:"required"`
	// Description is free text shown by tooling.
	Description string `yaml:"description,omitempty"`
	// Includes lists other definitions to expand before Pipes.
	Includes []string `yaml:"includes,omitempty" validate:"dive,required"`
	// Pipes lists registry names in execution order.
	Pipes []string `yaml:"pipes,omitempty" validate:"dive,required"`
}

// Validate checks the definition's struct tags.
func (d *Definition) Validate() error {
	if err := validation.Validate(d); err != nil {
		return errors.InvalidDefinition(d.Name, "invalid pipeline definition").WithCause(err)
	}
	return nil
}

// ParseDefinition decodes and validates a YAML definition. Unknown fields
// are rejected.
func ParseDefinition(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Definition
	if err := dec.Decode(&d); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.InvalidDefinition("", "empty pipeline definition")
		}
		return nil, errors.InvalidDefinition("", "parsing pipeline definition").WithCause(err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDefinitionFile reads and parses a definition from path.
func LoadDefinitionFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipes: reading %s: %w", path, err)
	}
	d, err := ParseDefinition(data)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			appErr.WithDetail("path", path)
		}
		return nil, err
	}
	return d, nil
}

// Resolve expands def into a Pipeline, looking pipes up in registry and
// included definitions up in loader. Includes expand depth-first and in
// order. An include listed twice runs twice; a definition that includes
// itself, directly or not, fails with INVALID_DEFINITION.
func Resolve(def *Definition, registry *Registry, loader Loader) (*Pipeline, error) {
	var members []Pipe
	if err := resolve(def, registry, loader, nil, &members); err != nil {
		return nil, err
	}
	return Chain(members...), nil
}

func resolve(def *Definition, registry *Registry, loader Loader, stack []string, out *[]Pipe) error {
	for _, name := range stack {
		if name == def.Name {
			return errors.InvalidDefinition(def.Name,
				fmt.Sprintf("circular include: %s -> %s", strings.Join(stack, " -> "), def.Name))
		}
	}
	stack = append(stack, def.Name)

	for _, include := range def.Includes {
		if loader == nil {
			return errors.InvalidDefinition(def.Name,
				fmt.Sprintf("include %q needs a loader", include))
		}
		sub, err := loader.Load(include)
		if err != nil {
			return fmt.Errorf("pipes: loading include %q of %q: %w", include, def.Name, err)
		}
		if err := resolve(sub, registry, loader, stack, out); err != nil {
			return err
		}
	}

	for _, name := range def.Pipes {
		p, err := registry.Lookup(name)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				appErr.WithDetail("definition", def.Name)
			}
			return err
		}
		*out = append(*out, p)
	}
	return nil
}
