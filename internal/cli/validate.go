package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/canvastools"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the tool catalog for definition errors",
	Long: `Build the full tool catalog and report definition problems: duplicate
tool names, alias collisions, parameters that fail schema compilation.
Exits non-zero when the catalog cannot be built.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	// The catalog only needs a client value to bind handlers; no requests
	// are made here.
	client := canvas.New("https://canvas.invalid", "validate-only", canvas.Options{})

	registry, err := canvastools.NewRegistry(client, canvastools.Options{})
	if err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}

	destructive := 0
	for _, def := range registry.List() {
		marker := " "
		if def.Destructive {
			marker = "!"
			destructive++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-28s %s\n", marker, def.Name, def.Description)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d tools OK (%d destructive)\n", registry.Len(), destructive)
	return nil
}
