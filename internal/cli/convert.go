package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unidep/pkg/manifest"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <requirements.yaml>",
		Short: "Convert a requirements.yaml into a [tool.unidep] table",
		Long: `Convert a requirements.yaml into the equivalent [tool.unidep] table for pyproject.toml.

Examples:
  unidep convert requirements.yaml
  unidep convert requirements.yaml -o unidep.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := manifest.ResolvePath(args[0])
			if err != nil {
				return err
			}
			data, err := manifest.ToTOML(path)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Converted %s", StyleHighlight.Render(path))
			printFile(output)
			printNextStep("Paste into pyproject.toml", "cat "+output+" >> pyproject.toml")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
