package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/manifest"
	"github.com/matzehuels/unidep/pkg/render/nodelink"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	discoverFlags
	format              string // dot, svg or list
	output              string // output file (stdout if empty)
	detailed            bool   // include metadata in node labels
	checkPipInstallable bool   // list: only link pip installable projects
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{
		discoverFlags: discoverFlags{directory: ".", depth: 1},
		format:        "dot",
	}

	cmd := &cobra.Command{
		Use:   "graph [files...]",
		Short: "Show how local projects include each other",
		Long: `Show the include graph of local projects.

Formats:
  dot   Graphviz source
  svg   rendered diagram
  json  nodes and edges with project metadata
  list  each project followed by the local projects it depends on

Examples:
  unidep graph -o includes.dot
  unidep graph --format svg -o includes.svg
  unidep graph --format list --check-pip-installable`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := opts.files(args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := writeGraph(cmd, w, files, opts); err != nil {
				return err
			}
			if opts.output != "" {
				printSuccess("Wrote include graph")
				printFile(opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.directory, "directory", "d", opts.directory, "directory to scan when no files are given")
	cmd.Flags().IntVar(&opts.depth, "depth", opts.depth, "maximum scan depth")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, json or list")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show rows and metadata in node labels")
	cmd.Flags().BoolVar(&opts.checkPipInstallable, "check-pip-installable", false, "list: only link projects that are pip installable")

	return cmd
}

func writeGraph(cmd *cobra.Command, w io.Writer, files []string, opts graphOpts) error {
	logger := loggerFromContext(cmd.Context())
	switch opts.format {
	case "list":
		local, err := manifest.ParseLocalDependencies(opts.checkPipInstallable, files...)
		if err != nil {
			return err
		}
		for _, project := range slices.Sorted(maps.Keys(local)) {
			fmt.Fprintln(w, project)
			for _, dep := range local[project] {
				fmt.Fprintf(w, "  %s\n", dep)
			}
		}
		return nil
	case "dot", "svg", "json":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg, json, list)", opts.format)
	}

	g, err := manifest.IncludeGraph(files...)
	if err != nil {
		return err
	}
	logger.Debug("built include graph", "projects", g.NodeCount(), "edges", g.EdgeCount())
	if opts.format == "json" {
		return nodelink.WriteJSON(g, w)
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed})
	if opts.format == "dot" {
		_, err := io.WriteString(w, dot)
		return err
	}
	svg, err := nodelink.RenderSVG(cmd.Context(), dot)
	if err != nil {
		return err
	}
	_, err = w.Write(svg)
	return err
}
