package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/doctriage/pkg/graph"
	"github.com/matzehuels/doctriage/pkg/storage"
)

// exportCommand writes the stored graph as a JSON bundle.
func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <bundle.json>",
		Short: "Export documents and relationships as a JSON bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.loadBundle(cmd.Context(), "")
			if err != nil {
				return err
			}
			if err := graph.WriteBundleFile(b, args[0]); err != nil {
				return err
			}
			printSuccess("Exported %d documents, %d relationships", len(b.Documents), len(b.Relationships))
			printFile(args[0])
			return nil
		},
	}
}

// importCommand loads a bundle into the store. Existing documents with the
// same IDs are replaced.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <bundle.json>",
		Short: "Import a JSON bundle into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := graph.ReadBundleFile(args[0])
			if err != nil {
				return err
			}
			return c.withStore(ctx, func(store storage.Store) error {
				if err := store.UpsertDocuments(ctx, b.Documents...); err != nil {
					return err
				}
				if err := store.UpsertRelationships(ctx, b.Relationships...); err != nil {
					return err
				}
				printSuccess("Imported %d documents, %d relationships", len(b.Documents), len(b.Relationships))
				return nil
			})
		},
	}
}
