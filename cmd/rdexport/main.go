package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ougirez/rdatlas/internal/app"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/config"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/pkg/sources"
	"github.com/ougirez/rdatlas/internal/pkg/store"
	"github.com/ougirez/rdatlas/internal/service/dashboard"
	"github.com/ougirez/rdatlas/internal/service/datasets"
)

type metaFile struct {
	GeneratedAt string            `json:"generated_at"`
	Generation  string            `json:"generation"`
	Datasets    []datasets.Status `json:"datasets"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "build":
		build(os.Args[2:])
	case "import":
		importDataset(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func setup(configPath string) (*app.App, context.Context) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogDevelopment); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init services:", err)
		os.Exit(1)
	}
	return a, ctx
}

func build(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a yaml config file")
	outDir := fs.String("out", "", "output directory (default: export.out_dir)")
	lang := fs.String("lang", "es", "label language, es or en")
	fs.Parse(args)

	a, ctx := setup(*configPath)
	defer a.Close()
	defer logger.Sync()

	if *outDir == "" {
		*outDir = a.Config.ExportDir
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "failed to create output dir:", err)
		os.Exit(1)
	}

	snap, err := a.Datasets.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load datasets:", err)
		os.Exit(1)
	}

	meta := metaFile{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Generation:  snap.Generation.String(),
		Datasets:    snap.Statuses(),
	}
	if err := writeJSON(filepath.Join(*outDir, "meta.json"), meta); err != nil {
		fmt.Fprintln(os.Stderr, "failed to write meta.json:", err)
		os.Exit(1)
	}

	written := 0
	for _, st := range meta.Datasets {
		if st.State != datasets.StateReady {
			fmt.Fprintf(os.Stderr, "skipping %s: %s\n", st.ID, st.Error)
			continue
		}
		entry, err := snap.Entry(st.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %s\n", st.ID, err)
			continue
		}

		dir := filepath.Join(*outDir, st.ID)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, "failed to create output dir:", err)
			os.Exit(1)
		}

		req := dashboard.Request{Dataset: st.ID, Lang: *lang}
		for name, fn := range charts(a.Dashboard, entry.Config.Schema) {
			chart, err := fn(ctx, req)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s/%s: %s\n", st.ID, name, err)
				continue
			}
			if err := writeJSON(filepath.Join(dir, name+".json"), chart); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write %s/%s.json: %s\n", st.ID, name, err)
				os.Exit(1)
			}
			written++
		}
	}

	fmt.Printf("export build complete (out=%s, charts=%d)\n", *outDir, written)
}

type chartFunc func(context.Context, dashboard.Request) (*dashboard.Chart, error)

func charts(svc *dashboard.Service, schema domain.Schema) map[string]chartFunc {
	out := map[string]chartFunc{
		"timeline": svc.Timeline,
		"map":      svc.Map,
	}
	switch {
	case schema.EntityKind == domain.EntityCountry:
		out["europe"] = svc.Europe
	case schema.Measure == domain.MeasureAdditive:
		out["totals"] = svc.Patents
	default:
		out["intensity"] = svc.Intensity
		out["sectors"] = svc.Sectors
	}
	return out
}

func importDataset(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a yaml config file")
	datasetID := fs.String("dataset", "", "dataset id to store the records under")
	location := fs.String("file", "", "csv or html file, or url")
	format := fs.String("format", "", "csv or html (default: from the file extension)")
	selector := fs.String("selector", "", "css selector of the html table")
	fs.Parse(args)

	if *datasetID == "" || *location == "" {
		usage()
		os.Exit(2)
	}

	a, ctx := setup(*configPath)
	defer a.Close()
	defer logger.Sync()

	if _, ok := a.Store.(*store.NopStore); ok {
		fmt.Fprintln(os.Stderr, "no store configured: set store.postgres_dsn or store.sqlite_path")
		os.Exit(1)
	}

	f, err := sources.ParseFormat(*format, *location)
	if err != nil || f == sources.FormatStore {
		fmt.Fprintln(os.Stderr, "invalid format:", *format)
		os.Exit(2)
	}

	records, err := sources.NewReader(a.Fetcher, a.Store).Read(ctx, sources.Part{Format: f, Location: *location, Selector: *selector})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read records:", err)
		os.Exit(1)
	}

	if err := a.Store.ReplaceDataset(ctx, *datasetID, *location, records); err != nil {
		fmt.Fprintln(os.Stderr, "failed to store records:", err)
		os.Exit(1)
	}

	fmt.Printf("imported %d records into %s\n", len(records), *datasetID)
}

func writeJSON(path string, value any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := sonic.ConfigStd.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rdexport <build|import> [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "build options:")
	fmt.Fprintln(os.Stderr, "  -config   yaml config file")
	fmt.Fprintln(os.Stderr, "  -out      output directory (default: export.out_dir)")
	fmt.Fprintln(os.Stderr, "  -lang     label language (default: es)")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "import options:")
	fmt.Fprintln(os.Stderr, "  -config   yaml config file")
	fmt.Fprintln(os.Stderr, "  -dataset  dataset id (required)")
	fmt.Fprintln(os.Stderr, "  -file     csv or html file, or url (required)")
	fmt.Fprintln(os.Stderr, "  -format   csv or html")
	fmt.Fprintln(os.Stderr, "  -selector css selector of the html table")
}
