package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/doctriage/pkg/errors"
)

// ingestCommand unpacks a ZIP archive into the store and analyses it.
func (c *CLI) ingestCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "ingest <archive.zip>",
		Short: "Ingest a ZIP archive of documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIngest(cmd, args[0], name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "archive name to record (default: file name)")

	return cmd
}

func (c *CLI) runIngest(cmd *cobra.Command, path, name string) error {
	ctx := cmd.Context()
	if name == "" {
		name = filepath.Base(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	ingester, err := c.newIngester(store)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analysing %s", name))
	spinner.Start()
	res, err := ingester.Ingest(ctx, name, f, info.Size(), func(pct int) {
		spinner.SetMessage(fmt.Sprintf("Analysing %s (%d%%)", name, pct))
	})
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Ingest failed: %s", errors.UserMessage(err)))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Ingested %s", StyleHighlight.Render(name)))
	prog.done("ingested archive", "archive", name)

	relevant := 0
	for _, d := range res.Documents {
		if d.IsRelevant {
			relevant++
		}
	}
	printStats(len(res.Documents), len(res.Relationships), relevant)
	printNextStep("Review the documents", "doctriage docs list --archive "+name)
	return nil
}
