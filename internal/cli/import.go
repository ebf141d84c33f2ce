// Package cli implements the command line entry points that run without
// the HTTP server.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/JordiMolto/MyMediaVerse/internal/config"
	"github.com/JordiMolto/MyMediaVerse/internal/database"
	"github.com/JordiMolto/MyMediaVerse/internal/database/items"
	"github.com/JordiMolto/MyMediaVerse/internal/database/notes"
	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/importer"
	"github.com/JordiMolto/MyMediaVerse/internal/providers"
	"github.com/JordiMolto/MyMediaVerse/internal/storage"
)

// ImportCommand imports a CSV or XLSX file into the local store, enriching
// every row from the external providers as it goes.
type ImportCommand struct {
	FilePath     string
	MediaType    string
	DatabasePath string
	Verbose      bool
}

// NewImportCommand creates a new ImportCommand.
func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

// ParseFlags parses command line flags.
func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV or XLSX file to import (required)")
	fs.StringVar(&cmd.MediaType, "type", "", "Category to import every row as: movie, series, anime, book, videogame, boardgame (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print the outcome of every row")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> -type <category> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import items from a CSV or XLSX file into the local store.\n\n")
		fmt.Fprintf(os.Stderr, "The file needs three columns: title, status, rating. The first row is\n")
		fmt.Fprintf(os.Stderr, "treated as a header and skipped. Run '%s template' to get a starter file.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file movies.csv -type movie\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file games.xlsx -type videogame -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}
	if cmd.MediaType == "" {
		fs.Usage()
		return fmt.Errorf("-type is required")
	}
	return nil
}

// Run executes the import.
func (cmd *ImportCommand) Run() error {
	mediaType, ok := entities.ParseMediaType(cmd.MediaType)
	if !ok {
		return fmt.Errorf("unknown category: %s", cmd.MediaType)
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	rows, skipped, err := importer.ParseFile(cmd.FilePath, file)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}
	for _, msg := range skipped {
		fmt.Printf("skipped: %s\n", msg)
	}
	if len(rows) == 0 {
		fmt.Println("Nothing to import.")
		return nil
	}

	cfg := config.NewConfig()
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	localStore := storage.NewLocalStore(items.NewRepository(db.DB), notes.NewRepository(db.DB))
	store := storage.NewRouter(localStore, nil, nil)

	tmdbClient := providers.NewTMDBClient(cfg.Providers.TMDBAPIKey, cfg.Providers.Language, cfg.Providers.WatchRegion)
	booksClient := providers.NewGoogleBooksClient(cfg.Providers.GoogleBooksAPIKey, cfg.Providers.Language)
	rawgClient := providers.NewRAWGClient(cfg.Providers.RAWGAPIKey)

	engine := enrich.NewEngine(store, tmdbClient, booksClient, rawgClient,
		providers.NewIntervalPacer(cfg.Enrichment.BatchInterval))
	pipeline := importer.NewPipeline(engine, tmdbClient, rawgClient,
		providers.NewIntervalPacer(cfg.Enrichment.ImportInterval))

	fmt.Printf("Importing %d rows as %s...\n", len(rows), mediaType)

	report, err := pipeline.Run(context.Background(), mediaType, rows, func(percent int) {
		fmt.Printf("\rProgress: %3d%%", percent)
	})
	fmt.Println()
	if err != nil {
		if report != nil {
			cmd.printReport(report, 0)
		}
		return err
	}

	// The pipeline only prepares drafts; saving them is this command's job.
	saved := 0
	for _, draft := range report.Drafts {
		if draft.Item == nil {
			continue
		}
		draft.Item.ID = "" // discard the temporary import id
		if _, err := store.CreateItem(context.Background(), draft.Item); err != nil {
			fmt.Printf("  line %d: %q could not be saved: %v\n", draft.Row.Line, draft.Row.Title, err)
			continue
		}
		saved++
	}

	cmd.printReport(report, saved)
	return nil
}

func (cmd *ImportCommand) printReport(report *importer.Report, saved int) {
	fmt.Printf("Done: %d saved, %d enriched, %d not found, %d failed\n",
		saved, report.Enriched, report.NotFound, report.Failed)

	if !cmd.Verbose {
		return
	}
	for _, draft := range report.Drafts {
		switch {
		case draft.Found:
			fmt.Printf("  line %d: %q matched %q via %s (%s confidence)\n",
				draft.Row.Line, draft.Row.Title, draft.Matched, draft.Source, draft.Confidence)
		case draft.Error != "":
			fmt.Printf("  line %d: %q: %s\n", draft.Row.Line, draft.Row.Title, draft.Error)
		default:
			fmt.Printf("  line %d: %q kept its row values\n", draft.Row.Line, draft.Row.Title)
		}
	}
}
