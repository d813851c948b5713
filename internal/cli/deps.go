package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unidep/pkg/deps"
	"github.com/matzehuels/unidep/pkg/pipeline"
	"github.com/matzehuels/unidep/pkg/platform"
)

// depsOpts holds the flags of the pip and conda commands.
type depsOpts struct {
	loadFlags
	separator string
}

// pipCommand creates the pip command.
func (c *CLI) pipCommand() *cobra.Command {
	return ecosystemCommand(deps.Pip, `Print the pip requirements of the given manifests.

Files default to the current directory. The target platform defaults to the
one unidep runs on.

Examples:
  unidep pip                           # ./requirements.yaml, current platform
  unidep pip app lib --separator '\n'
  pip install $(unidep pip -p linux-64)`)
}

// condaCommand creates the conda command.
func (c *CLI) condaCommand() *cobra.Command {
	return ecosystemCommand(deps.Conda, `Print the conda packages of the given manifests.

Files default to the current directory. The target platform defaults to the
one unidep runs on.

Examples:
  unidep conda
  conda install $(unidep conda)`)
}

func ecosystemCommand(which deps.Ecosystem, long string) *cobra.Command {
	opts := depsOpts{separator: " "}
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [files...]", which),
		Short: fmt.Sprintf("Print the %s dependencies for a platform", which),
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			out, err := ecosystemDependencies(cmd, which, args, opts)
			if err != nil {
				return err
			}
			sep := strings.ReplaceAll(opts.separator, `\n`, "\n")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, sep))
			return err
		},
	}
	opts.loadFlags.register(cmd)
	cmd.Flags().StringVar(&opts.separator, "separator", opts.separator, `separator between entries; "\n" for one per line`)
	return cmd
}

func ecosystemDependencies(cmd *cobra.Command, which deps.Ecosystem, args []string, opts depsOpts) ([]string, error) {
	ctx := cmd.Context()
	files, err := discoverFlags{}.files(args)
	if err != nil {
		return nil, err
	}
	popts := opts.options(files)
	if len(popts.Platforms) == 0 {
		current, err := platform.Current()
		if err != nil {
			return nil, err
		}
		popts.Platforms = []platform.Platform{current}
	}

	runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return nil, err
	}
	if which == deps.Pip {
		return result.Pip, nil
	}
	return result.Environment.CondaStrings(), nil
}
