package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/storage"
)

// relateCommand links two documents, or reruns relationship discovery over
// the whole store when called without arguments.
func (c *CLI) relateCommand() *cobra.Command {
	var relType string
	var strength float64

	cmd := &cobra.Command{
		Use:   "relate [<source> <target>]",
		Short: "Add a relationship or rediscover all relationships",
		Example: `  doctriage relate                       # rerun discovery
  doctriage relate 3f2a 9c1d --type referenced --strength 0.8`,
		Args: cobra.MatchAll(cobra.MaximumNArgs(2), func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return cobra.ExactArgs(2)(cmd, args)
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.runDiscover(cmd)
			}
			rel := docs.Relationship{
				SourceID: args[0],
				TargetID: args[1],
				Type:     docs.RelationshipType(relType),
				Strength: strength,
			}
			return c.runRelate(cmd, rel)
		},
	}

	cmd.Flags().StringVar(&relType, "type", string(docs.RelReferenced), "referenced, similar or sequential")
	cmd.Flags().Float64Var(&strength, "strength", 0.5, "link strength in [0,1]")
	return cmd
}

func (c *CLI) runRelate(cmd *cobra.Command, rel docs.Relationship) error {
	if err := rel.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	return c.withStore(ctx, func(store storage.Store) error {
		for _, id := range []string{rel.SourceID, rel.TargetID} {
			if _, err := store.GetDocument(ctx, id); err != nil {
				return err
			}
		}
		if err := store.UpsertRelationships(ctx, rel); err != nil {
			return err
		}
		for _, id := range []string{rel.SourceID, rel.TargetID} {
			rels, err := store.RelationshipsByDocument(ctx, id)
			if err != nil {
				return err
			}
			if _, err := storage.UpdateDocument(ctx, store, id, func(d *docs.Document) error {
				d.RelatedDocuments = docs.RelatedIDs(id, rels)
				return nil
			}); err != nil {
				return err
			}
		}
		printSuccess("Linked %s %s %s (%s, %.2f)", rel.SourceID, iconArrow, rel.TargetID, rel.Type, rel.Strength)
		return nil
	})
}

func (c *CLI) runDiscover(cmd *cobra.Command) error {
	ctx := cmd.Context()
	return c.withStore(ctx, func(store storage.Store) error {
		in, err := c.newIngester(store)
		if err != nil {
			return err
		}
		prog := newProgress(c.Logger)
		rels, err := in.Relate(ctx)
		if err != nil {
			return err
		}
		prog.done("discovered relationships", "count", len(rels))
		printSuccess("Discovered %d relationships", len(rels))
		return nil
	})
}
