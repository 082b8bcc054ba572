package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapestone/yamlkit/pkg/yaml"
)

type FmtOptions struct {
	Files     []string
	Indent    int
	Width     int
	FlowLevel int
	SortKeys  bool
}

func NewFmtOptions() *FmtOptions {
	return &FmtOptions{}
}

func NewFmtCmd(o *FmtOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Reformat YAML documents",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringArrayVarP(&o.Files, "file", "f", nil, "File (local path or -) (can be specified multiple times)")
	cmd.Flags().IntVar(&o.Indent, "indent", 2, "Spaces per nesting level")
	cmd.Flags().IntVar(&o.Width, "width", 80, "Preferred maximum line width (non-positive disables wrapping)")
	cmd.Flags().IntVar(&o.FlowLevel, "flow-level", 0, "Render collections in flow style from this nesting level (0 disables)")
	cmd.Flags().BoolVar(&o.SortKeys, "sort-keys", false, "Sort mapping keys instead of keeping source order")
	return cmd
}

func (o *FmtOptions) Run() error {
	if len(o.Files) == 0 {
		o.Files = []string{"-"}
	}
	for _, file := range o.Files {
		text, name, err := readInput(file)
		if err != nil {
			return err
		}

		opts := &yaml.Options{
			Filename:  name,
			Indent:    o.Indent,
			LineWidth: o.Width,
			FlowLevel: o.FlowLevel,
			SortKeys:  o.SortKeys,
		}
		if o.Width <= 0 {
			opts.LineWidth = -1
		}

		docs, err := yaml.LoadAll(text, opts)
		if err != nil {
			return err
		}

		var out string
		switch len(docs) {
		case 0:
		case 1:
			out, err = yaml.Dump(docs[0], opts)
		default:
			out, err = yaml.DumpAll(docs, opts)
		}
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
	}
	return nil
}
