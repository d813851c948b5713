package manifest

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/unidep/pkg/dag"
	"github.com/matzehuels/unidep/pkg/dag/transform"
	"github.com/matzehuels/unidep/pkg/errors"
)

// IsPipInstallable reports whether dir holds a setup.py or a pyproject.toml
// with a [build-system] table.
func IsPipInstallable(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "setup.py")); err == nil {
		return true
	}
	var pyproject map[string]any
	if _, err := toml.DecodeFile(filepath.Join(dir, PyprojectFile), &pyproject); err != nil {
		return false
	}
	_, ok := pyproject["build-system"]
	return ok
}

// ParseLocalDependencies maps the project directory of every manifest in
// paths to the project directories it includes, directly or through other
// includes. With checkPipInstallable set, a link is only recorded when both
// projects are pip installable. Lists are sorted; projects without local
// dependencies are omitted.
func ParseLocalDependencies(checkPipInstallable bool, paths ...string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", p)
		}
		base := filepath.Dir(abs)
		found := make(map[string]bool)
		if err := collectLocal(abs, base, make(map[string]bool), found, checkPipInstallable); err != nil {
			return nil, err
		}
		for dir := range found {
			if !slices.Contains(out[base], dir) {
				out[base] = append(out[base], dir)
			}
		}
		slices.Sort(out[base])
	}
	for k, v := range out {
		if len(v) == 0 {
			delete(out, k)
		}
	}
	return out, nil
}

func collectLocal(path, base string, processed, found map[string]bool, check bool) error {
	if processed[path] {
		return nil
	}
	processed[path] = true
	doc, err := ReadFile(path)
	if err != nil {
		return err
	}
	for _, inc := range doc.Includes {
		incPath, err := includePath(path, inc)
		if err != nil {
			return err
		}
		incDir := filepath.Dir(incPath)
		if incDir == base {
			continue
		}
		if !check || (IsPipInstallable(base) && IsPipInstallable(incDir)) {
			found[incDir] = true
		}
		if err := collectLocal(incPath, base, processed, found, check); err != nil {
			return err
		}
	}
	return nil
}

// IncludeGraph builds the graph of project directories reachable from
// paths, with an edge from each project to every project it includes.
// Cycles are broken and rows assigned so that includers sit above what
// they include. Node metadata carries "label" (directory name), "manifest"
// and "pip_installable".
func IncludeGraph(paths ...string) (*dag.DAG, error) {
	g := dag.New()
	processed := make(map[string]bool)

	addProject := func(manifest string) string {
		dir := filepath.Dir(manifest)
		if _, ok := g.Node(dir); !ok {
			_ = g.AddNode(dag.Node{ID: dir, Meta: dag.Metadata{
				"label":           filepath.Base(dir),
				"manifest":        manifest,
				"pip_installable": IsPipInstallable(dir),
			}})
		}
		return dir
	}

	var walk func(path string) error
	walk = func(path string) error {
		if processed[path] {
			return nil
		}
		processed[path] = true
		from := addProject(path)
		doc, err := ReadFile(path)
		if err != nil {
			return err
		}
		for _, inc := range doc.Includes {
			incPath, err := includePath(path, inc)
			if err != nil {
				return err
			}
			to := addProject(incPath)
			if to != from {
				_ = g.AddEdge(dag.Edge{From: from, To: to})
			}
			if err := walk(incPath); err != nil {
				return err
			}
		}
		return nil
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", p)
		}
		if err := walk(abs); err != nil {
			return nil, err
		}
	}
	transform.BreakCycles(g)
	transform.AssignLayers(g)
	return g, nil
}
