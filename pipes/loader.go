package pipes

import (
	stderrors "errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/kbukum/pipekit/errors"
)

// Loader loads pipeline definitions by name.
type Loader interface {
	Load(name string) (*Definition, error)
}

// FileLoader loads definitions from YAML files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader that searches the given directories, in
// order, for {name}.yaml or {name}.yml. Each directory is tried directly
// first, then one level of subdirectories.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

// Dirs returns the search directories.
func (l *FileLoader) Dirs() []string { return slices.Clone(l.dirs) }

// Load returns the first matching definition. A file that exists but does
// not parse is reported rather than skipped.
func (l *FileLoader) Load(name string) (*Definition, error) {
	for _, path := range l.candidates(name) {
		d, err := LoadDefinitionFile(path)
		if stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if d.Name != name {
			return nil, errors.InvalidDefinition(name, "definition name does not match its file").
				WithDetail("path", path).
				WithDetail("declared", d.Name)
		}
		return d, nil
	}
	return nil, errors.DefinitionNotFound(name).WithDetail("dirs", l.dirs)
}

func (l *FileLoader) candidates(name string) []string {
	var paths []string
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			paths = append(paths, filepath.Join(dir, name+ext))
		}
		for _, ext := range []string{".yaml", ".yml"} {
			matches, _ := filepath.Glob(filepath.Join(dir, "*", name+ext))
			paths = append(paths, matches...)
		}
	}
	return paths
}

// List returns the sorted names of all definitions found directly in the
// search directories. Files that fail to parse are skipped.
func (l *FileLoader) List() []string {
	seen := make(map[string]struct{})
	for _, dir := range l.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}
			if d, err := LoadDefinitionFile(filepath.Join(dir, e.Name())); err == nil {
				seen[d.Name] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// MapLoader serves definitions held in memory.
type MapLoader struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewMapLoader creates a MapLoader holding defs, keyed by their names.
func NewMapLoader(defs ...*Definition) *MapLoader {
	l := &MapLoader{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		l.Add(d)
	}
	return l
}

// Add stores d under its name, replacing any earlier definition.
func (l *MapLoader) Add(d *Definition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs[d.Name] = d
}

func (l *MapLoader) Load(name string) (*Definition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.defs[name]
	if !ok {
		return nil, errors.DefinitionNotFound(name)
	}
	return d, nil
}
