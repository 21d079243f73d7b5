package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

type schemaOutput struct {
	Types      []string          `json:"types" yaml:"types"`
	Attributes schema.Attributes `json:"attributes" yaml:"attributes"`
}

func schemaCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema [type]",
		Short: "List field types and their metadata attributes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := schemaOutput{Types: schema.Types()}
			fieldType := ""
			if len(args) == 1 {
				fieldType = args[0]
				if !schema.IsKnownType(fieldType) {
					printHint(cmd.ErrOrStderr(), "known types: %v", schema.Types())
					return fmt.Errorf("%w %q", schema.ErrUnknownType, fieldType)
				}
				out.Types = []string{fieldType}
			}
			out.Attributes = schema.AttributesFor(fieldType)
			return writeOutput(cmd.OutOrStdout(), format, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")
	return cmd
}
