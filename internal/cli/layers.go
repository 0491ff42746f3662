package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/memegen/pkg/document"
)

// layersCommand creates the layers command, which lists a saved document.
func (c *CLI) layersCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "layers [document]",
		Short:   "List the layers of a saved document",
		Example: `  memegen layers cat.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if len(doc) == 0 {
				printInfo("Document has no layers")
				return nil
			}
			return writeLayerTable(cmd.OutOrStdout(), doc)
		},
	}
}
