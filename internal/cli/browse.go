package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/pipeline"
	"github.com/matzehuels/doctriage/pkg/render/relgraph"
)

// browseCommand opens the interactive relationship browser.
func (c *CLI) browseCommand() *cobra.Command {
	var focus, input string
	var seed uint64
	var neighbourhood bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore the relationship graph in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			b, err := c.loadBundle(ctx, input)
			if err != nil {
				return err
			}
			if len(b.Documents) == 0 {
				printInfo("No documents to browse")
				printNextStep("Ingest an archive first", "doctriage ingest <archive.zip>")
				return nil
			}
			documents, rels := b.Documents, b.Relationships
			if focus != "" {
				if _, ok := b.Document(focus); !ok {
					return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", focus)
				}
				if neighbourhood {
					documents, rels = relgraph.Neighbourhood(documents, rels, focus)
				}
			}
			if seed == 0 {
				seed = cfg.Render.Seed
			}
			if seed == 0 {
				seed = 1
			}
			width, height := cfg.Render.Width, cfg.Render.Height
			if width <= 0 || height <= 0 {
				width, height = pipeline.DefaultWidth, pipeline.DefaultHeight
			}

			m := NewBrowseModel(ctx, documents, rels, width, height, seed)
			defer m.Close()
			if focus != "" {
				m.focusOn(focus)
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "document to start on")
	cmd.Flags().BoolVar(&neighbourhood, "neighbourhood", false, "only show the focus and its direct links")
	cmd.Flags().StringVar(&input, "bundle", "", "browse an exported bundle instead of the store")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "layout seed")
	return cmd
}
