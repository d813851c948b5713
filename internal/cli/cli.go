package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/unidep/pkg/buildinfo"
	"github.com/matzehuels/unidep/pkg/cache"
	"github.com/matzehuels/unidep/pkg/envspec"
	"github.com/matzehuels/unidep/pkg/pipeline"
	"github.com/matzehuels/unidep/pkg/platform"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "unidep"

	// envRedisURL names the default for serve --redis-url.
	envRedisURL = "UNIDEP_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "Unified conda and pip dependency management",
		Long: `unidep reads requirements.yaml and pyproject.toml files that list conda and pip
dependencies together, settles conflicting pins per platform and writes a
single conda environment.yaml or a pip requirement list.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.pipCommand())
	root.AddCommand(c.condaCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.platformsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the local result cache, falling back to no caching when the
// cache directory cannot be determined.
func newCache() (cache.Cache, error) {
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Shared Flags
// =============================================================================

// loadFlags are the manifest loading flags shared by merge, pip and conda.
type loadFlags struct {
	platforms        []string
	ignorePins       []string
	overwritePins    []string
	skipDependencies []string
	extras           []string
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.platforms, "platform", "p", nil, "target platform (repeatable); default: platforms declared in the files")
	cmd.Flags().StringSliceVar(&f.ignorePins, "ignore-pin", nil, "drop the version pin of a package (repeatable)")
	cmd.Flags().StringSliceVar(&f.overwritePins, "overwrite-pin", nil, `replace a pin, e.g. "numpy >=1.26" (repeatable)`)
	cmd.Flags().StringSliceVar(&f.skipDependencies, "skip-dependency", nil, "leave a package out (repeatable)")
	cmd.Flags().StringSliceVar(&f.extras, "extras", nil, `optional dependency sections to include; "*" for all`)
}

func (f *loadFlags) options(files []string) pipeline.Options {
	opts := pipeline.Options{
		Files:            files,
		IgnorePins:       f.ignorePins,
		OverwritePins:    f.overwritePins,
		SkipDependencies: f.skipDependencies,
		Extras:           f.extras,
	}
	for _, p := range f.platforms {
		opts.Platforms = append(opts.Platforms, platform.Platform(p))
	}
	return opts
}

// headerFor describes the command line for the environment.yaml banner.
func headerFor(args []string) envspec.Header {
	return envspec.Header{
		Version: buildinfo.Version,
		Command: strings.Join(args, " "),
	}
}

// commandLine returns the arguments after the program name.
func commandLine() []string {
	if len(os.Args) < 2 {
		return nil
	}
	return os.Args[1:]
}
