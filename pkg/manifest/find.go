package manifest

import (
	"bufio"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/unidep/pkg/errors"
)

// FindRequirementsFiles scans dir up to depth levels of subdirectories for
// requirements.yaml files and pyproject.toml files with a [tool.unidep]
// table. The result is sorted.
func FindRequirementsFiles(dir string, depth int) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scan %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is not a directory", dir)
	}

	var found []string
	var scan func(path string, level int) error
	scan = func(path string, level int) error {
		if level > depth {
			return nil
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "scan %s", path)
		}
		for _, e := range entries {
			child := filepath.Join(path, e.Name())
			switch {
			case e.IsDir():
				if err := scan(child, level+1); err != nil {
					return err
				}
			case e.Name() == RequirementsFile:
				found = append(found, child)
			case e.Name() == PyprojectFile && hasUnidepTable(child):
				found = append(found, child)
			}
		}
		return nil
	}
	if err := scan(dir, 0); err != nil {
		return nil, err
	}
	slices.Sort(found)
	return found, nil
}

// hasUnidepTable looks for a line opening a [tool.unidep] table.
func hasUnidepTable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.HasPrefix(strings.TrimSpace(sc.Text()), "[tool.unidep") {
			return true
		}
	}
	return false
}
