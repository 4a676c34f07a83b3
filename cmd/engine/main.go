// Command engine scrapes internship README feeds into a local corpus and
// serves it over HTTP.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDirFlag string
	version     = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "engine",
	Short:        "Internship posting ingestion engine",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default $INTERNHUNT_DATA_DIR or the user config dir)")
	rootCmd.AddCommand(serveCmd, scrapeCmd, tokenCmd)
}
