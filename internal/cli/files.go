package cli

import (
	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/manifest"
)

// discoverFlags locate manifests when none are named on the command line.
type discoverFlags struct {
	directory string
	depth     int
}

// files resolves args to manifest paths, or scans the directory when args
// is empty.
func (f discoverFlags) files(args []string) ([]string, error) {
	if len(args) > 0 {
		out := make([]string, 0, len(args))
		for _, a := range args {
			p, err := manifest.ResolvePath(a)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	}
	found, err := manifest.FindRequirementsFiles(f.directory, f.depth)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errors.New(errors.ErrCodeFileNotFound,
			"no %s or %s with [tool.unidep] found in %s (depth %d)",
			manifest.RequirementsFile, manifest.PyprojectFile, f.directory, f.depth)
	}
	return found, nil
}
