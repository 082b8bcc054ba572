package cli

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/shapestone/yamlkit/pkg/yaml"
)

type InspectOptions struct {
	File string
}

func NewInspectOptions() *InspectOptions {
	return &InspectOptions{}
}

func NewInspectCmd(o *InspectOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Dump the native value tree of each document for debugging",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.File, "file", "f", "-", "File (local path or -)")
	return cmd
}

func (o *InspectOptions) Run() error {
	text, name, err := readInput(o.File)
	if err != nil {
		return err
	}

	printer := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}

	n := 0
	return yaml.EachDocument(text, &yaml.Options{Filename: name}, func(value interface{}) error {
		n++
		fmt.Fprintf(os.Stdout, "--- document %d\n", n)
		printer.Fdump(os.Stdout, value)
		return nil
	})
}
