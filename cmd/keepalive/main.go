package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	dbfs "github.com/garnizeh/keepalive/db"
	"github.com/garnizeh/keepalive/internal/dashboard"
	"github.com/garnizeh/keepalive/internal/db"
	"github.com/garnizeh/keepalive/internal/importer"
	"github.com/garnizeh/keepalive/internal/keepalive"
	"github.com/garnizeh/keepalive/internal/repository/sqlite"
	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/garnizeh/keepalive/pkg/probe"
	"github.com/garnizeh/keepalive/pkg/repository"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const defaultDBPath = "keepalive.db"

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: keepalive <command> [flags]

Commands:
  run        Run keepalive for all enabled projects
  dashboard  Show project status table (alias: list)
  add        Add a new project
  show       Show details for one project
  enable     Enable a project
  disable    Disable a project
  delete     Delete a project permanently
  import     Import projects from a legacy JSON file
  version    Show version information`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = cmdRun(args)
	case "dashboard", "list":
		err = cmdDashboard(args)
	case "add":
		err = cmdAdd(args)
	case "show":
		err = cmdShow(args)
	case "enable":
		err = cmdSetEnabled(args, true)
	case "disable":
		err = cmdSetEnabled(args, false)
	case "delete":
		err = cmdDelete(args)
	case "import":
		err = cmdImport(args)
	case "version":
		fmt.Printf("keepalive %s (built at %s)\n", version, buildTime)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the SQLite database, applies pending migrations and
// returns the project store with a cleanup func.
func openStore(ctx context.Context, dbPath string, logger *slog.Logger) (*sqlite.Store, func(), error) {
	conn, err := db.New(ctx, dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return sqlite.New(conn, logger), func() { conn.Close() }, nil
}

func newLogger(quiet bool) *slog.Logger {
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "database path")
	timeout := fs.Duration("timeout", keepalive.DefaultProjectTimeout, "per-project timeout")
	quiet := fs.Bool("quiet", false, "suppress progress logging")
	fs.Parse(args)

	ctx := context.Background()
	logger := newLogger(*quiet)
	probe.SetLogger(logger)

	store, cleanup, err := openStore(ctx, *dbPath, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	prober := probe.NewDefaultClient(0)
	defer prober.Close()

	engine := keepalive.NewEngine(store, prober, *timeout, logger)
	report, err := engine.Run(ctx, true)
	if err != nil {
		return err
	}

	dash := dashboard.New(store, os.Stdout)
	dash.RenderReport(report)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d checks failed", report.Failed, len(report.Outcomes))
	}
	return nil
}

func cmdDashboard(args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "database path")
	enabledOnly := fs.Bool("enabled", false, "show only enabled projects")
	fs.Parse(args)

	ctx := context.Background()
	store, cleanup, err := openStore(ctx, *dbPath, newLogger(true))
	if err != nil {
		return err
	}
	defer cleanup()

	return dashboard.New(store, os.Stdout).Show(ctx, *enabledOnly)
}

func cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "database path")
	name := fs.String("name", "", "project name")
	url := fs.String("url", "", "project endpoint URL")
	key := fs.String("key", "", "project API key")
	method := fs.String("method", "rpc", "keepalive method (rpc or table)")
	table := fs.String("table", "", "table name (table method only)")
	disabled := fs.Bool("disabled", false, "add the project disabled")
	fs.Parse(args)

	ctx := context.Background()
	store, cleanup, err := openStore(ctx, *dbPath, newLogger(true))
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := store.Create(ctx, repository.CreateProjectParams{
		Name:        strings.TrimSpace(*name),
		EndpointURL: strings.TrimSpace(*url),
		Credential:  *key,
		Method:      models.CheckMethod(*method),
		TableName:   strings.TrimSpace(*table),
		Enabled:     !*disabled,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Project %q added (ID: %d)\n", p.Name, p.ID)
	return nil
}

func cmdShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "database path")
	fs.Parse(args)

	id, err := idArg(fs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, cleanup, err := openStore(ctx, *dbPath, newLogger(true))
	if err != nil {
		return err
	}
	defer cleanup()

	return dashboard.New(store, os.Stdout).ShowProject(ctx, id)
}

func cmdSetEnabled(args []string, enabled bool) error {
	name := "enable"
	if !enabled {
		name = "disable"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "database path")
	fs.Parse(args)

	id, err := idArg(fs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, cleanup, err := openStore(ctx, *dbPath, newLogger(true))
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := store.SetEnabled(ctx, id, enabled)
	if err != nil {
		return err
	}

	fmt.Printf("Project %q %sd\n", p.Name, name)
	return nil
}

func cmdDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "database path")
	force := fs.Bool("force", false, "skip confirmation")
	fs.Parse(args)

	id, err := idArg(fs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, cleanup, err := openStore(ctx, *dbPath, newLogger(true))
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	if !*force {
		fmt.Printf("Delete project %q (ID: %d)? [y/N]: ", p.Name, p.ID)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Printf("Project %q deleted\n", p.Name)
	return nil
}

func cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "database path")
	file := fs.String("file", "projects.json", "legacy JSON file to import")
	fs.Parse(args)

	ctx := context.Background()
	logger := newLogger(false)

	store, cleanup, err := openStore(ctx, *dbPath, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := importer.Run(ctx, store, f, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Import complete: %d created, %d skipped, %d failed\n",
		report.Created, report.Skipped, report.Failed)
	return nil
}

func idArg(fs *flag.FlagSet) (int64, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one project id argument")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project id %q", fs.Arg(0))
	}
	return id, nil
}
