package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/vocabbox/internal/app"
	"github.com/example/vocabbox/internal/database"
	"github.com/example/vocabbox/internal/importer"
	syncer "github.com/example/vocabbox/internal/sync"
)

func main() {
	// Load .env if present; real env vars take precedence
	_ = godotenv.Load()

	importFile := flag.String("import", "", "Import a vocabulary list from an xlsx/csv file")
	importName := flag.String("name", "", "Name for the imported list")
	runSync := flag.Bool("sync", false, "Push local progress to the remote store once")
	showStats := flag.Bool("stats", false, "Print application statistics")
	daemon := flag.Bool("daemon", false, "Run the periodic auto-sync daemon")
	flag.Parse()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/vocabbox.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.SeedBuiltinLists(db); err != nil {
		log.Fatalf("Failed to seed built-in lists: %v", err)
	}

	core := app.New(db)

	switch {
	case *importFile != "":
		if *importName == "" {
			log.Fatal("-name is required when importing a list")
		}
		config := importer.DefaultImportConfig(*importFile)
		result, err := importer.ParseFile(config)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		list, err := core.CreateListFromPairs(*importName, result.Pairs)
		if err != nil {
			log.Fatalf("Failed to create list: %v", err)
		}
		log.Printf("Imported list %q: %d pairs (%d rows skipped)",
			list.Name, len(result.Pairs), result.Skipped)
		for _, e := range result.Errors {
			log.Printf("Import warning: %s", e)
		}

	case *runSync:
		reconciler, userID := mustReconciler(core)
		result, err := reconciler.SyncAll(context.Background(), userID, func(p syncer.Progress) {
			log.Printf("Syncing %s: %d/%d", p.Phase, p.Current, p.Total)
		})
		if err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		log.Printf("Sync finished: %d lists, %d vocabularies, %d stats uploaded (success=%v)",
			result.ListsUploaded, result.VocabulariesUploaded, result.StatsUploaded, result.Success)
		for _, e := range result.Errors {
			log.Printf("Sync error: %s", e)
		}

	case *showStats:
		stats, err := core.AppStats()
		if err != nil {
			log.Fatalf("Failed to compute stats: %v", err)
		}
		fmt.Printf("Vocabularies: %d total, %d not started, %d in progress, %d mastered\n",
			stats.TotalVocabularies, stats.NotStarted, stats.InProgress, stats.Mastered)
		fmt.Printf("Today: %d learned, %d reviewed\n", stats.TodayLearned, stats.TodayReviewed)
		fmt.Printf("Lists: %d active of %d\n", stats.ActiveLists, stats.TotalLists)

	case *daemon:
		reconciler, userID := mustReconciler(core)
		interval := 6 * time.Hour
		if hours := os.Getenv("SYNC_INTERVAL_HOURS"); hours != "" {
			if h, err := strconv.Atoi(hours); err == nil && h > 0 {
				interval = time.Duration(h) * time.Hour
			}
		}

		auto := syncer.NewAutoSync(reconciler, userID, interval)
		auto.Start()
		log.Printf("Auto-sync daemon started (every %s). Press Ctrl+C to stop.", interval)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		auto.Stop()
		log.Println("Auto-sync daemon stopped")

	default:
		flag.Usage()
	}
}

// mustReconciler builds the reconciler against the configured remote
// store, or exits when the remote is not configured.
func mustReconciler(core *app.App) (*syncer.Reconciler, string) {
	url := os.Getenv("REMOTE_DATABASE_URL")
	if url == "" {
		log.Fatal("REMOTE_DATABASE_URL environment variable is not set")
	}
	userID := os.Getenv("SYNC_USER_ID")
	if userID == "" {
		log.Fatal("SYNC_USER_ID environment variable is not set")
	}

	remote, err := syncer.OpenRemote(url)
	if err != nil {
		log.Fatalf("Failed to connect to remote store: %v", err)
	}

	return syncer.NewReconciler(core.Lists, core.Vocab, core.Stats, remote), userID
}
