package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shopbot",
	Short: "AI-powered shopping assistant server",
	Long: `ShopBot is a conversational shopping assistant. It classifies user
intent, tracks multi-turn sessions, searches the product catalog, and
generates replies through an LLM provider, exposed over a REST and
websocket API.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".shopbot.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
