package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Document knowledge base with semantic search and Q&A",
	Long: `askdocs stores uploaded documents, embeds their text, and answers
questions against them. It exposes a REST API for uploads, search, and
question answering, plus an MCP server for AI agent integration.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env file is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "askdocs.yml", "config file path")
}
