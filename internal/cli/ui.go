package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/doctriage/pkg/docs"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary actions
	colorGreen  = lipgloss.Color("35")  // success, reviewed
	colorYellow = lipgloss.Color("220") // warnings, in progress
	colorRed    = lipgloss.Color("167") // errors, privileged
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// stdout is where command output goes; tests swap it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints ingest counts on a single line.
func printStats(documents, relationships, relevant int) {
	parts := []string{
		fmt.Sprintf("%d documents", documents),
		fmt.Sprintf("%d relationships", relationships),
		fmt.Sprintf("%d relevant", relevant),
	}
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// printGraphStats prints layout counts and whether each stage was cached.
func printGraphStats(nodes, edges int, layoutHit, renderHit bool) {
	state := func(hit bool) string {
		if hit {
			return styleCached.Render(iconCached)
		}
		return styleComputed.Render(iconFresh)
	}
	fmt.Fprintf(stdout, "  %s%s%s%s%s\n",
		StyleDim.Render(fmt.Sprintf("%d nodes · %d edges", nodes, edges)),
		StyleDim.Render(" · layout "), state(layoutHit),
		StyleDim.Render(" · render "), state(renderHit))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Documents
// =============================================================================

// statusStyle colours a review status.
func statusStyle(s docs.Status) lipgloss.Style {
	switch s {
	case docs.StatusReviewed:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case docs.StatusInProgress:
		return lipgloss.NewStyle().Foreground(colorYellow)
	case docs.StatusNeedsSecondLook:
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle().Foreground(colorGray)
	}
}

// flagString renders the review flags as a compact marker string.
func flagString(d docs.Document) string {
	var b strings.Builder
	if d.IsKey {
		b.WriteString("★")
	}
	if d.IsRelevant {
		b.WriteString("R")
	}
	if d.IsPrivileged {
		b.WriteString("P")
	}
	if b.Len() == 0 {
		return "—"
	}
	return b.String()
}

// documentTable lays documents out as a bordered table. cursor marks one
// row, or none when negative.
func documentTable(documents []docs.Document, cursor int) *table.Table {
	rows := make([][]string, len(documents))
	for i, d := range documents {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		rows[i] = []string{
			mark,
			d.ID,
			d.FileName,
			string(d.Category()),
			string(d.Status),
			flagString(d),
			strings.Join(d.Tags, ", "),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "File", "Category", "Status", "Flags", "Tags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < 0 || row >= len(documents) {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle()
			if col == 4 {
				style = statusStyle(documents[row].Status)
			}
			if col == 1 {
				style = style.Foreground(colorDim)
			}
			if row == cursor {
				style = style.Bold(true)
				if col != 4 {
					style = style.Foreground(colorCyan)
				}
			}
			return style
		})
}

func printDocuments(documents []docs.Document) {
	if len(documents) == 0 {
		printInfo("No documents")
		return
	}
	fmt.Fprintln(stdout, documentTable(documents, -1).Render())
	printDetail("%d documents", len(documents))
}

// printDocument prints one document's metadata, analysis and annotations.
func printDocument(d docs.Document) {
	fmt.Fprintln(stdout, StyleTitle.Render(d.FileName))
	printKeyValue("ID", d.ID)
	printKeyValue("Type", d.FileType)
	printKeyValue("Size", docs.FormatFileSize(d.FileSize))
	printKeyValue("Uploaded", d.UploadDate.Format("2006-01-02 15:04"))
	printKeyValue("Status", statusStyle(d.Status).Render(string(d.Status)))
	printKeyValue("Flags", flagString(d))
	if len(d.Tags) > 0 {
		printKeyValue("Tags", strings.Join(d.Tags, ", "))
	}
	if d.SourceArchive != "" {
		printKeyValue("Archive", d.SourceArchive)
	}
	if d.Summary != "" {
		printKeyValue("Summary", d.Summary)
	}
	for _, p := range d.KeyPoints {
		printDetail("• %s", p)
	}
	entities := []struct {
		name   string
		values []string
	}{
		{"People", d.Entities.People},
		{"Organizations", d.Entities.Organizations},
		{"Dates", d.Entities.Dates},
		{"Locations", d.Entities.Locations},
	}
	for _, e := range entities {
		if len(e.values) > 0 {
			printKeyValue(e.name, strings.Join(e.values, ", "))
		}
	}
	if len(d.RelatedDocuments) > 0 {
		printKeyValue("Related", strings.Join(d.RelatedDocuments, ", "))
	}
	for _, a := range d.Annotations {
		printDetail("p.%d  %s", a.PageNumber, a.Text)
	}
}
