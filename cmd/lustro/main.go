package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/app"
	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/models"
)

var (
	configFile   = flag.String("config", "", "Configuration file path")
	configFileC  = flag.String("c", "", "Configuration file path (shorthand)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
	watchMode    = flag.Bool("watch", false, "Run batches on the configured schedule instead of once")
	reviewMode   = flag.Bool("review", false, "Open an interactive review session after the batch run")
	searchQuery  = flag.String("search", "", "Run a semantic search instead of a batch")
	searchChunks = flag.Bool("chunks", false, "Search at chunk level (with -search)")
	searchLimit  = flag.Int("limit", 5, "Maximum search results (with -search)")

	logger arbor.ILogger
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Lustro version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence: load config, initialize logger, print banner.
	path := *configFile
	if path == "" {
		path = *configFileC
	}
	if path == "" {
		if _, err := os.Stat("lustro.toml"); err == nil {
			path = "lustro.toml"
		}
	}

	config, err := common.LoadConfig(path)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Str("path", path).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Str("config_file", path).
		Str("provider", config.LLM.Provider).
		Str("source", config.Source.Type).
		Msg("Application configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("Interrupt signal received")
		cancel()
	}()

	switch {
	case *searchQuery != "":
		runSearch(ctx, application, *searchQuery, *searchChunks, *searchLimit)
	case *watchMode:
		runWatch(ctx, application, config)
	default:
		runBatch(ctx, application, *reviewMode)
	}
}

func runBatch(ctx context.Context, application *app.App, review bool) {
	report, err := application.Pipeline.ProcessAll(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Batch run failed")
	}

	printReport(report)

	if review && len(report.PendingIssues) > 0 {
		reviewLoop(application)
	}
}

func runWatch(ctx context.Context, application *app.App, config *common.Config) {
	if err := application.SchedulerService.Start(config.Schedule.Cron); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	logger.Info().Msg("Watching - Press Ctrl+C to stop")
	<-ctx.Done()
	application.SchedulerService.Stop()
}

func runSearch(ctx context.Context, application *app.App, query string, chunks bool, limit int) {
	var results []models.SearchResult
	var err error

	if chunks {
		results, err = application.SearchService.SearchChunks(ctx, query, limit)
	} else {
		results, err = application.SearchService.SearchDocuments(ctx, query, limit)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Search failed")
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	for i, r := range results {
		fmt.Printf("%d. %s (%.2f%%)\n", i+1, r.Filename, r.Score)
		if r.Summary != "" {
			fmt.Printf("   %s\n", r.Summary)
		}
		fmt.Printf("   %s\n", strings.ReplaceAll(r.Preview, "\n", " "))
	}
}

func printReport(report *models.BatchReport) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to render batch report")
		return
	}
	fmt.Println(string(data))
}

// reviewLoop reads approve/reject commands from stdin until the pending
// queue is empty or the reviewer quits.
func reviewLoop(application *app.App) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Commands: list | approve <index> | reject <index> [reason] | quit")

	for application.ApprovalService.PendingCount() > 0 {
		fmt.Printf("review (%d pending)> ", application.ApprovalService.PendingCount())
		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "list":
			for i, issue := range application.ApprovalService.ListPending() {
				fmt.Printf("[%d] %s %s - %s\n", i, issue.Type, issue.Filename, issue.Recommendation)
			}
		case "approve", "reject":
			if len(fields) < 2 {
				fmt.Println("usage: approve <index> | reject <index> [reason]")
				continue
			}
			index, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Printf("invalid index %q\n", fields[1])
				continue
			}

			var decision *models.ApprovalDecision
			if fields[0] == "approve" {
				decision, err = application.ApprovalService.Approve(index)
			} else {
				decision, err = application.ApprovalService.Reject(index, strings.Join(fields[2:], " "))
			}
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("%s: %s (%s)\n", decision.Outcome, decision.Issue.Filename, decision.Issue.Type)
		case "quit", "q", "exit":
			return
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}

	fmt.Println("No pending issues remain.")
}
