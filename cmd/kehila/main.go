package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kehila",
		Short: "Reliability scoring and related-question ranking for the kehila Q&A community",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(rankCmd())
	root.AddCommand(relatedCmd())
	root.AddCommand(importCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func rankCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rank [user-id...]",
		Short: "Recompute reliability scores and trust tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(args, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func relatedCmd() *cobra.Command {
	var (
		jsonOutput bool
		maxResults int
	)

	cmd := &cobra.Command{
		Use:   "related <question-id>",
		Short: "Rank related questions for a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelated(args[0], maxResults, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&maxResults, "max", 0, "max related questions (default: from config)")
	return cmd
}

func importCmd() *cobra.Command {
	var (
		feedURL  string
		category string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import questions from an RSS/Atom feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(feedURL, category)
		},
	}

	cmd.Flags().StringVar(&feedURL, "url", "", "feed URL (default: all feeds from config)")
	cmd.Flags().StringVar(&category, "category", "", "category for entries without one (default: from config)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with rank scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
