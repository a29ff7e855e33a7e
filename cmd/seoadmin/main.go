package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"seoadmin/internal/app"
	"seoadmin/internal/config"
	"seoadmin/internal/logging"
	"seoadmin/pkg/logger"
)

var fatal = logger.New("seoadmin")

var rootCmd = &cobra.Command{
	Use:   "seoadmin",
	Short: "Blog admin service: SEO analysis, fix application, audit history",
	Long: `seoadmin runs the SEO issue lifecycle for a personal blog: analyze pages
through an AI delegate, review and edit proposed fixes, apply them to live
content with a full change history, and publish scheduled posts.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API and scheduled-post publisher",
	Run: func(cmd *cobra.Command, args []string) {
		application := mustApp()
		defer application.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := application.Serve(ctx); err != nil {
			fatal.Fatalf("server stopped: %v", err)
		}
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [page-id...]",
	Short: "Run SEO analysis against one or more pages",
	Run: func(cmd *cobra.Command, args []string) {
		application := mustApp()
		defer application.Close()
		ctx := context.Background()

		pageIDs := args
		if analyzeAll {
			pages, err := application.Pages.List(ctx)
			if err != nil {
				fatal.Fatalf("list pages: %v", err)
			}
			pageIDs = pageIDs[:0]
			for _, page := range pages {
				pageIDs = append(pageIDs, page.ID)
			}
		}
		if len(pageIDs) == 0 {
			fatal.Fatal("page id required (or pass --all)")
		}

		summary := application.Analyzer.AnalyzeBulk(ctx, pageIDs)
		for _, result := range summary.Results {
			if result.Err != nil {
				fmt.Printf("✗ %s: %v\n", result.PageID, result.Err)
			} else {
				fmt.Printf("✓ %s: report %s\n", result.PageID, result.ReportID)
			}
		}
		fmt.Printf("successful=%d failed=%d\n", summary.Successful, summary.Failed)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <page-id>",
	Short: "Show the latest report's issue counts for a page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		application := mustApp()
		defer application.Close()

		summary, err := application.Reporting.SummarizeLatest(context.Background(), args[0])
		if err != nil {
			fatal.Fatalf("summarize: %v", err)
		}
		fmt.Printf("report %s\n", summary.ReportID)
		fmt.Printf("open: HIGH=%d MEDIUM=%d LOW=%d\n",
			summary.Open.High, summary.Open.Medium, summary.Open.Low)
		fmt.Printf("resolved: %d\n", len(summary.Resolved))
	},
}

var analyzeAll bool

func mustApp() *app.Application {
	cfg := config.Load()
	application, err := app.New(cfg, logging.New(cfg.Logging.Level))
	if err != nil {
		fatal.Fatalf("startup failed: %v", err)
	}
	return application
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "Analyze every stored page")
	rootCmd.AddCommand(serveCmd, analyzeCmd, summaryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
