package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexiszott/GL02-Projet-Fork/internal/analysis"
	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/config"
	"github.com/alexiszott/GL02-Projet-Fork/internal/crawler"
	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"
	"github.com/alexiszott/GL02-Projet-Fork/internal/index"
	"github.com/alexiszott/GL02-Projet-Fork/internal/pipeline"
	"github.com/alexiszott/GL02-Projet-Fork/internal/report"
	"github.com/alexiszott/GL02-Projet-Fork/internal/storage"
	"github.com/alexiszott/GL02-Projet-Fork/internal/watch"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "cruparser",
		Short: "Parse, check and query CRU timetable files",
	}
	configPath string
	dbPath     string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file (YAML or TOML)")
	// Empty means the value from the configuration
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the session database (SQLite)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log parse errors while decoding")

	checkCmd.Flags().BoolP("showSymbols", "s", false, "Log every symbol consumed by the grammar")
	checkCmd.Flags().BoolP("showTokenize", "t", false, "Log the token stream of every session line")

	searchCmd.Flags().StringP("needle", "n", "", "Text to look for in any session field")
	searchCmd.Flags().StringP("day", "d", "", "Keep sessions whose day contains this value")

	scanCmd.Flags().String("json", "", "Also dump the catalog as JSON to this path")
	updateCmd.Flags().Bool("force", false, "Run a full sync when git reports no changes")
	capacityCmd.Flags().StringP("file", "f", "", "Read sessions from this CRU file instead of the database")
	freeCmd.Flags().StringP("file", "f", "", "Read sessions from this CRU file instead of the database")

	rootCmd.AddCommand(checkCmd, searchCmd, scanCmd, updateCmd, capacityCmd, freeCmd, watchCmd)
}

// loadConfig reads the configuration and applies the --db override.
func loadConfig() *config.Config {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	return cfg
}

// parserOptions maps configuration and flags to parser options.
func parserOptions(cfg *config.Config, traceTokens, traceSymbols bool) []cru.Option {
	opts := []cru.Option{
		cru.WithBoilerplate(cfg.Parser.Boilerplate...),
		cru.WithTraceTokens(traceTokens || cfg.Parser.TraceTokens),
		cru.WithTraceSymbols(traceSymbols || cfg.Parser.TraceSymbols),
	}
	if verbose || traceTokens || traceSymbols || cfg.Parser.TraceTokens || cfg.Parser.TraceSymbols {
		opts = append(opts, cru.WithLogger(log.New(os.Stdout, "", 0)))
	}
	return opts
}

func initStore(cfg *config.Config) (*storage.SQLiteStore, error) {
	return storage.NewSQLiteStore(cfg.Storage.DBPath)
}

func parseFile(cfg *config.Config, path string, opts ...cru.Option) *catalog.Document {
	doc, err := crawler.NewCrawler(cfg.Data.FileName, opts...).ParseFile(path)
	if err != nil {
		log.Fatalf("Failed to parse: %v", err)
	}
	return doc
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check that a CRU file is syntactically valid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		showSymbols, _ := cmd.Flags().GetBool("showSymbols")
		showTokenize, _ := cmd.Flags().GetBool("showTokenize")

		doc := parseFile(cfg, args[0], parserOptions(cfg, showTokenize, showSymbols)...)
		report.Verdict(os.Stdout, doc)
		report.Diagnostics(os.Stdout, doc.Diagnostics)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <file>",
	Short: "Search the sessions of a CRU file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		needle, _ := cmd.Flags().GetString("needle")
		day, _ := cmd.Flags().GetString("day")

		doc := parseFile(cfg, args[0], parserOptions(cfg, false, false)...)
		sessions := doc.Sessions
		if needle == "" && day == "" {
			if err := report.JSON(os.Stdout, analysis.Preview(sessions, cfg.Output.PreviewLimit)); err != nil {
				log.Fatalf("Failed to print preview: %v", err)
			}
			return
		}

		if needle != "" {
			sessions = analysis.Search(sessions, needle)
		}
		if day != "" {
			sessions = analysis.FilterByDay(sessions, day)
		}
		if len(sessions) == 0 {
			fmt.Println("No matching session.")
			return
		}
		for _, line := range analysis.MatchLines(sessions) {
			fmt.Println(line)
		}
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Parse every timetable under root and store the sessions",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		root := cfg.Data.Root
		if len(args) > 0 {
			root = args[0]
		}
		jsonPath, _ := cmd.Flags().GetString("json")

		fmt.Printf("📂 Scanning directory: %s\n", root)

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		idx := index.NewIndexer(crawler.NewCrawler(cfg.Data.FileName, parserOptions(cfg, false, false)...))

		start := time.Now()
		c, err := idx.BuildCatalog(cmd.Context(), root)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		fmt.Printf("✅ Parsed %d files in %v. Sessions=%d Errors=%d\n",
			len(c.Documents), time.Since(start), len(c.Sessions()), c.ErrorCount())

		fmt.Println("💾 Saving to local database...")
		if err := store.SaveCatalog(cmd.Context(), c); err != nil {
			log.Fatalf("Failed to save catalog: %v", err)
		}

		if jsonPath != "" {
			if err := idx.SaveCatalog(c, jsonPath); err != nil {
				log.Fatalf("Failed to write %s: %v", jsonPath, err)
			}
			fmt.Printf("📝 Catalog written to %s\n", jsonPath)
		}

		fmt.Printf("🎉 Scan complete! Database: %s\n", cfg.Storage.DBPath)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Incrementally update the database based on git changes",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		force, _ := cmd.Flags().GetBool("force")

		sync := pipeline.NewIncrementalSync(cfg.Storage.DBPath)
		sync.DataRoot = cfg.Data.Root
		sync.FileName = cfg.Data.FileName
		sync.ParserOpts = parserOptions(cfg, false, false)
		if err := sync.Run(cmd.Context(), force); err != nil {
			log.Fatalf("Update failed: %v", err)
		}
	},
}

// roomSessions loads the sessions of room from a file when --file is set,
// otherwise from the database.
func roomSessions(cmd *cobra.Command, cfg *config.Config, room string) []*cru.Session {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		return parseFile(cfg, file, parserOptions(cfg, false, false)...).Sessions
	}

	store, err := initStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	sessions, err := store.FindSessionsByRoom(cmd.Context(), strings.TrimSpace(room))
	if err != nil {
		log.Fatalf("Failed to query sessions: %v", err)
	}
	return sessions
}

func roomError(room string, err error) {
	switch {
	case errors.Is(err, analysis.ErrEmptyRoom):
		fmt.Println(report.ErrorStyle.Render("A room identifier is required"))
	case errors.Is(err, analysis.ErrRoomNotFound):
		fmt.Println(report.ErrorStyle.Render(fmt.Sprintf("Room %s not found", room)))
	default:
		fmt.Println(err)
	}
	os.Exit(1)
}

var capacityCmd = &cobra.Command{
	Use:   "capacity <room>",
	Short: "Show the largest capacity planned in a room",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		room := args[0]

		capacity, err := analysis.MaxCapacity(roomSessions(cmd, cfg, room), room)
		if err != nil {
			roomError(room, err)
		}
		fmt.Printf("Max capacity of room %s: %d\n", room, capacity)
	},
}

var freeCmd = &cobra.Command{
	Use:   "free <room>",
	Short: "List the free hours of a room for each weekday",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		room := args[0]

		slots, err := analysis.FreeSlots(roomSessions(cmd, cfg, room), room)
		if err != nil {
			roomError(room, err)
		}
		report.Slots(os.Stdout, room, slots)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Keep the database in sync while timetable files change",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		root := cfg.Data.Root
		if len(args) > 0 {
			root = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		cr := crawler.NewCrawler(cfg.Data.FileName, parserOptions(cfg, false, false)...)
		c, err := index.NewIndexer(cr).BuildCatalog(ctx, root)
		if err != nil {
			log.Fatalf("Initial scan failed: %v", err)
		}
		if err := store.SaveCatalog(ctx, c); err != nil {
			log.Fatalf("Failed to save catalog: %v", err)
		}
		fmt.Printf("👀 Watching %s (%d files). Press Ctrl+C to stop.\n", root, len(c.Documents))

		w := watch.NewWatcher(cr)
		err = w.Run(ctx, root, watch.Handlers{
			OnDocument: func(doc *catalog.Document) {
				if err := store.SaveDocument(ctx, doc); err != nil {
					log.Printf("⚠️ Failed to save %s: %v", doc.Path, err)
					return
				}
				printVerdict(os.Stdout, doc)
			},
			OnRemove: func(path string) {
				if err := store.DeleteDocument(ctx, path); err != nil {
					log.Printf("⚠️ Failed to delete %s: %v", path, err)
					return
				}
				fmt.Printf("🗑️  %s removed\n", path)
			},
		})
		if err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
	},
}

func printVerdict(w io.Writer, doc *catalog.Document) {
	fmt.Fprintf(w, "🔄 %s\n", doc.Path)
	report.Verdict(w, doc)
	report.Diagnostics(w, doc.Diagnostics)
}
