// Package cli implements the yamlkit command line tool: formatting,
// validating, converting, and inspecting YAML documents.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the yamlkit command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "yamlkit",
		Short:         "Load, validate, convert, and reformat YAML documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewFmtCmd(NewFmtOptions()))
	cmd.AddCommand(NewValidateCmd(NewValidateOptions()))
	cmd.AddCommand(NewConvertCmd(NewConvertOptions()))
	cmd.AddCommand(NewInspectCmd(NewInspectOptions()))
	return cmd
}

// readInput reads one input argument: a file path, or "-" for stdin.
// The returned name is attached to error marks.
func readInput(path string) (text, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}
