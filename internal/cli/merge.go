package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unidep/pkg/envspec"
	"github.com/matzehuels/unidep/pkg/pipeline"
)

// mergeOpts holds the command-line flags for the merge command.
type mergeOpts struct {
	loadFlags
	discoverFlags
	output      string // environment file to write
	stdout      bool   // print instead of writing output
	name        string // environment name
	selector    string // sel or comment
	preferConda bool   // drop pip entries that conda covers
}

// mergeCommand creates the merge command.
func (c *CLI) mergeCommand() *cobra.Command {
	opts := mergeOpts{
		discoverFlags: discoverFlags{directory: ".", depth: 1},
		output:        "environment.yaml",
		name:          envspec.DefaultName,
		selector:      string(envspec.SelectorSel),
	}

	cmd := &cobra.Command{
		Use:   "merge [files...]",
		Short: "Combine manifests into a single environment.yaml",
		Long: `Combine requirements.yaml and pyproject.toml files into one conda environment.yaml.

Without arguments, manifests are searched in --directory up to --depth levels deep.

Examples:
  unidep merge                                  # Scan the current directory
  unidep merge app/requirements.yaml lib        # Explicit files or directories
  unidep merge -p linux-64 -p osx-arm64 --stdout
  unidep merge --selector comment -o env.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args, opts)
		},
	}

	opts.loadFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.directory, "directory", "d", opts.directory, "directory to scan when no files are given")
	cmd.Flags().IntVar(&opts.depth, "depth", opts.depth, "maximum scan depth")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print the environment instead of writing a file")
	cmd.Flags().StringVarP(&opts.name, "name", "n", opts.name, "environment name")
	cmd.Flags().StringVar(&opts.selector, "selector", opts.selector, "platform selector style: sel or comment")
	cmd.Flags().BoolVar(&opts.preferConda, "prefer-conda", false, "leave out pip entries for packages conda provides")

	return cmd
}

func runMerge(cmd *cobra.Command, args []string, opts mergeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	files, err := opts.files(args)
	if err != nil {
		return err
	}
	for _, f := range files {
		logger.Debug("using manifest", "file", f)
	}

	runner := pipeline.NewRunner(nil, nil, logger)
	popts := opts.options(files)
	popts.Name = opts.name
	popts.Selector = envspec.SelectorStyle(opts.selector)
	popts.PreferConda = opts.preferConda
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}

	header := headerFor(commandLine())
	if opts.stdout {
		data, err := result.Environment.Bytes(header)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := result.Environment.WriteFile(opts.output, header); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	prog.done(fmt.Sprintf("Merged %d files", len(result.Files)))
	printSuccess("Generated environment %s", StyleHighlight.Render(result.Environment.Name))
	printFile(opts.output)
	printStats(result.Stats.PackageCount, len(result.Environment.Conda), len(result.Environment.Pip), len(result.Warnings))
	return nil
}
