package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapestone/yamlkit/pkg/fault"
	"github.com/shapestone/yamlkit/pkg/yaml"
)

type ValidateOptions struct {
	Files  []string
	Strict bool
}

func NewValidateOptions() *ValidateOptions {
	return &ValidateOptions{}
}

func NewValidateCmd(o *ValidateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that YAML documents parse and construct cleanly",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringArrayVarP(&o.Files, "file", "f", nil, "File (local path or -) (can be specified multiple times)")
	cmd.Flags().BoolVar(&o.Strict, "strict", false, "Treat warnings such as duplicate keys as errors")
	return cmd
}

func (o *ValidateOptions) Run() error {
	if len(o.Files) == 0 {
		o.Files = []string{"-"}
	}

	failed := 0
	for _, file := range o.Files {
		text, name, err := readInput(file)
		if err != nil {
			return err
		}

		opts := &yaml.Options{Filename: name}
		if o.Strict {
			opts.OnWarning = func(w *fault.Error) error { return w }
		}

		if err := yaml.Validate(text, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "%s: ok\n", name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed validation", failed, len(o.Files))
	}
	return nil
}
