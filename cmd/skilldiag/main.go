// Package main provides the skilldiag command-line client for the job-matching service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	baseURL    string
	timeout    int
	pageSize   int
	redisAddr  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "skilldiag",
	Short: "Skill diagnostic client",
	Long: "skilldiag searches a job-matching service by skill, extracts skills from PDF/DOCX resumes, " +
		"and lists the skills and courses missing for selected jobs.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to JSON config file")
	flags.StringVar(&baseURL, "base-url", "", "Job-matching service URL (overrides SKILLDIAG_BASE_URL)")
	flags.IntVar(&timeout, "timeout", 0, "Request timeout in seconds (overrides SKILLDIAG_TIMEOUT)")
	flags.IntVar(&pageSize, "page-size", 0, "Jobs per page (overrides SKILLDIAG_PAGE_SIZE)")
	flags.StringVar(&redisAddr, "redis-addr", "", "Redis address for caching searches (overrides SKILLDIAG_REDIS_ADDR)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
