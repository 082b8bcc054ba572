package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/shapestone/yamlkit/pkg/orderedmap"
	"github.com/shapestone/yamlkit/pkg/yaml"
)

type ConvertOptions struct {
	File   string
	Output string
}

func NewConvertOptions() *ConvertOptions {
	return &ConvertOptions{}
}

func NewConvertCmd(o *ConvertOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a YAML document to JSON, TOML, or normalized YAML",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.File, "file", "f", "-", "File (local path or -)")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "json", "Output format: json, toml, or yaml")
	return cmd
}

func (o *ConvertOptions) Run() error {
	text, name, err := readInput(o.File)
	if err != nil {
		return err
	}

	value, err := yaml.Load(text, &yaml.Options{Filename: name})
	if err != nil {
		return err
	}

	switch o.Output {
	case "json":
		data, err := json.MarshalIndent(orderedmap.ToPlain(value), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s\n", data)
		return nil

	case "toml":
		plain, ok := orderedmap.ToPlain(value).(map[string]interface{})
		if !ok {
			return fmt.Errorf("toml output requires a mapping at the document root, got %T", value)
		}
		return toml.NewEncoder(os.Stdout).Encode(plain)

	case "yaml":
		out, err := yaml.Dump(value, nil)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
		return nil

	default:
		return fmt.Errorf("unknown output format %q (want json, toml, or yaml)", o.Output)
	}
}
