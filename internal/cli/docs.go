package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/storage"
)

// docsCommand groups the document triage subcommands.
func (c *CLI) docsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"doc"},
		Short:   "List, inspect and triage documents",
	}

	cmd.AddCommand(c.docsListCommand())
	cmd.AddCommand(c.docsShowCommand())
	cmd.AddCommand(c.docsTagCommand())
	cmd.AddCommand(c.docsUntagCommand())
	cmd.AddCommand(c.docsStatusCommand())
	cmd.AddCommand(c.docsFlagCommand())
	cmd.AddCommand(c.docsAnnotateCommand())
	cmd.AddCommand(c.docsDeleteCommand())

	return cmd
}

// withStore opens the store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(storage.Store) error) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// updateDocument applies fn to one stored document and prints the result.
func (c *CLI) updateDocument(cmd *cobra.Command, id string, fn func(*docs.Document) error) error {
	ctx := cmd.Context()
	return c.withStore(ctx, func(store storage.Store) error {
		d, err := storage.UpdateDocument(ctx, store, id, fn)
		if err != nil {
			return err
		}
		loggerFromContext(ctx).Debug("updated document", "id", d.ID, "status", d.Status)
		printSuccess("Updated %s", StyleHighlight.Render(d.FileName))
		return nil
	})
}

type listOpts struct {
	query    string
	archive  string
	types    []string
	tags     []string
	statuses []string
	from, to string
	relevant string
	priv     string
	key      string
	asJSON   bool
}

func (c *CLI) docsListCommand() *cobra.Command {
	var opts listOpts

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents matching filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := opts.filters()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return c.withStore(ctx, func(store storage.Store) error {
				all, err := store.ListDocuments(ctx)
				if err != nil {
					return err
				}
				matched := docs.Filter(all, f)
				if opts.asJSON {
					return writeJSON(matched)
				}
				printDocuments(matched)
				return nil
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&opts.query, "query", "q", "", "match file names containing text")
	fl.StringVar(&opts.archive, "archive", "", "only documents from this archive")
	fl.StringSliceVar(&opts.types, "type", nil, "file type substrings (repeatable)")
	fl.StringSliceVar(&opts.tags, "tag", nil, "documents carrying any of these tags")
	fl.StringSliceVar(&opts.statuses, "status", nil, "review statuses (repeatable)")
	fl.StringVar(&opts.from, "from", "", "uploaded on or after (YYYY-MM-DD)")
	fl.StringVar(&opts.to, "to", "", "uploaded on or before (YYYY-MM-DD)")
	fl.StringVar(&opts.relevant, "relevant", "", "filter on the relevant flag (true|false)")
	fl.StringVar(&opts.priv, "privileged", "", "filter on the privileged flag (true|false)")
	fl.StringVar(&opts.key, "key", "", "filter on the key flag (true|false)")
	fl.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

// filters converts the list flags. Date bounds are whole days.
func (o listOpts) filters() (docs.Filters, error) {
	f := docs.Filters{
		Query:         o.query,
		Archive:       o.archive,
		DocumentTypes: o.types,
		Tags:          o.tags,
	}
	for _, s := range o.statuses {
		st, err := docs.ParseStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = append(f.Status, st)
	}
	var err error
	if f.From, err = parseDay(o.from, "from"); err != nil {
		return f, err
	}
	if f.To, err = parseDay(o.to, "to"); err != nil {
		return f, err
	}
	if !f.To.IsZero() {
		f.To = f.To.Add(24*time.Hour - time.Nanosecond)
	}
	flags := []struct {
		name string
		raw  string
		dst  **bool
	}{
		{"relevant", o.relevant, &f.IsRelevant},
		{"privileged", o.priv, &f.IsPrivileged},
		{"key", o.key, &f.IsKey},
	}
	for _, fl := range flags {
		if fl.raw == "" {
			continue
		}
		v, err := strconv.ParseBool(fl.raw)
		if err != nil {
			return f, errors.New(errors.ErrCodeInvalidInput, "--%s: expected true or false, got %q", fl.name, fl.raw)
		}
		*fl.dst = &v
	}
	return f, nil
}

func parseDay(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return t, errors.New(errors.ErrCodeInvalidInput, "--%s: expected YYYY-MM-DD, got %q", name, raw)
	}
	return t, nil
}

func (c *CLI) docsShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a document with its analysis and annotations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store storage.Store) error {
				d, err := store.GetDocument(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(d)
				}
				printDocument(d)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) docsTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <id> <tag>...",
		Short: "Add tags to a document",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.updateDocument(cmd, args[0], func(d *docs.Document) error {
				for _, t := range args[1:] {
					if err := d.AddTag(t); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func (c *CLI) docsUntagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "untag <id> <tag>...",
		Short: "Remove tags from a document",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.updateDocument(cmd, args[0], func(d *docs.Document) error {
				for _, t := range args[1:] {
					if !d.RemoveTag(t) {
						return errors.New(errors.ErrCodeNotFound, "document has no tag %q", t)
					}
				}
				return nil
			})
		},
	}
}

func (c *CLI) docsStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <status>",
		Short:     "Set a document's review status",
		Long:      `Set a document's review status: "Unread", "In Progress", "Reviewed" or "Needs Second Look" (case-insensitive).`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: statusNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := docs.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return c.updateDocument(cmd, args[0], func(d *docs.Document) error {
				return d.SetStatus(st)
			})
		},
	}
}

func statusNames() []string {
	names := make([]string, len(docs.Statuses))
	for i, s := range docs.Statuses {
		names[i] = string(s)
	}
	return names
}

func (c *CLI) docsFlagCommand() *cobra.Command {
	var relevant, privileged, key string

	cmd := &cobra.Command{
		Use:     "flag <id>",
		Short:   "Set or clear review flags",
		Example: `  doctriage docs flag 3f2a --key=true --privileged=false`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var flags docs.Flags
			for _, f := range []struct {
				name string
				raw  string
				dst  **bool
			}{
				{"relevant", relevant, &flags.IsRelevant},
				{"privileged", privileged, &flags.IsPrivileged},
				{"key", key, &flags.IsKey},
			} {
				if f.raw == "" {
					continue
				}
				v, err := strconv.ParseBool(f.raw)
				if err != nil {
					return errors.New(errors.ErrCodeInvalidInput, "--%s: expected true or false, got %q", f.name, f.raw)
				}
				*f.dst = &v
			}
			if flags == (docs.Flags{}) {
				return errors.New(errors.ErrCodeInvalidInput, "set at least one of --relevant, --privileged, --key")
			}
			return c.updateDocument(cmd, args[0], func(d *docs.Document) error {
				d.SetFlags(flags)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&relevant, "relevant", "", "true or false")
	cmd.Flags().StringVar(&privileged, "privileged", "", "true or false")
	cmd.Flags().StringVar(&key, "key", "", "true or false")
	return cmd
}

func (c *CLI) docsAnnotateCommand() *cobra.Command {
	var page int
	var pos docs.Rect

	cmd := &cobra.Command{
		Use:   "annotate <id> <text>",
		Short: "Attach a note to a page of a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.updateDocument(cmd, args[0], func(d *docs.Document) error {
				a, err := docs.NewAnnotation(d.ID, args[1], page, pos)
				if err != nil {
					return err
				}
				d.Annotate(a)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().Float64Var(&pos.X, "x", 0, "highlight x")
	cmd.Flags().Float64Var(&pos.Y, "y", 0, "highlight y")
	cmd.Flags().Float64Var(&pos.Width, "width", 0, "highlight width")
	cmd.Flags().Float64Var(&pos.Height, "height", 0, "highlight height")
	return cmd
}

func (c *CLI) docsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete documents and their relationships",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store storage.Store) error {
				for _, id := range args {
					if err := store.DeleteDocument(ctx, id); err != nil {
						return err
					}
					printSuccess("Deleted %s", id)
				}
				return nil
			})
		},
	}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
