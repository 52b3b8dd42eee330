package dashboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/garnizeh/keepalive/pkg/repository"
	"golang.org/x/term"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
)

// Dashboard renders project status tables for the terminal. Credentials are
// always masked before display.
type Dashboard struct {
	store repository.ProjectStore
	out   io.Writer
	color bool
}

// New builds a dashboard writing to out. ANSI colors are used only when out
// is a terminal.
func New(store repository.ProjectStore, out io.Writer) *Dashboard {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Dashboard{store: store, out: out, color: color}
}

// Show prints the project status table.
func (d *Dashboard) Show(ctx context.Context, enabledOnly bool) error {
	projects, err := d.store.List(ctx, enabledOnly)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(d.out, "No projects found. Use the 'add' command to add projects.")
		return nil
	}

	w := tabwriter.NewWriter(d.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tENABLED\tMETHOD\tLAST STATUS\tLAST CHECKED")
	for _, p := range projects {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Name,
			d.enabledLabel(p.Enabled),
			methodLabel(p),
			d.statusLabel(p.LastStatus),
			d.checkedLabel(p.LastChecked),
		)
	}
	return w.Flush()
}

// ShowProject prints the full detail view of one project, with the
// credential masked.
func (d *Dashboard) ShowProject(ctx context.Context, id int64) error {
	p, err := d.store.Get(ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(d.out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", p.ID)
	fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	fmt.Fprintf(w, "Endpoint:\t%s\n", p.EndpointURL)
	fmt.Fprintf(w, "Credential:\t%s\n", p.MaskedCredential())
	fmt.Fprintf(w, "Method:\t%s\n", methodLabel(*p))
	fmt.Fprintf(w, "Enabled:\t%s\n", d.enabledLabel(p.Enabled))
	fmt.Fprintf(w, "Last status:\t%s\n", d.statusLabel(p.LastStatus))
	fmt.Fprintf(w, "Last checked:\t%s\n", d.checkedLabel(p.LastChecked))
	fmt.Fprintf(w, "Created:\t%s\n", formatMillis(p.Created))
	fmt.Fprintf(w, "Updated:\t%s\n", formatMillis(p.Updated))
	return w.Flush()
}

// RenderReport prints the per-project outcomes and summary of a run.
func (d *Dashboard) RenderReport(report *models.RunReport) {
	for _, o := range report.Outcomes {
		mark := d.paint("OK", ansiGreen)
		if !o.Succeeded {
			mark = d.paint("FAIL", ansiRed)
		}
		fmt.Fprintf(d.out, "%s\t%s\t%s\t%s\n", mark, o.ProjectName, o.Method, o.Detail)
	}
	fmt.Fprintf(d.out, "\n%d succeeded, %d failed in %s\n",
		report.Succeeded, report.Failed, report.Duration.Round(time.Millisecond))
}

func (d *Dashboard) enabledLabel(enabled bool) string {
	if enabled {
		return d.paint("yes", ansiGreen)
	}
	return d.paint("no", ansiRed)
}

func (d *Dashboard) statusLabel(lastStatus string) string {
	switch models.StatusOf(lastStatus) {
	case models.StatusUnknown:
		return d.paint("never run", ansiDim)
	case models.StatusSuccess:
		return d.paint(truncate(lastStatus, 40), ansiGreen)
	default:
		return d.paint(truncate(lastStatus, 40), ansiRed)
	}
}

func (d *Dashboard) checkedLabel(lastChecked int64) string {
	if lastChecked == 0 {
		return d.paint("never", ansiDim)
	}
	return formatMillis(lastChecked)
}

func (d *Dashboard) paint(s, color string) string {
	if !d.color {
		return s
	}
	return color + s + ansiReset
}

func methodLabel(p models.Project) string {
	if p.Method == models.MethodTable {
		return "table:" + p.TableName
	}
	return string(p.Method)
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
