package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagNERUrl   string
	flagLanguage string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "piictl",
	Short: "Detect, redact and restore PII in text",
	Long: `piictl runs the PII pipeline from the command line. Text is read
from a file argument or stdin. Structured pattern detection always runs;
pass --ner-url to add recogniser-backed detection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := zerolog.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		zerolog.SetGlobalLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagNERUrl, "ner-url", "", "recogniser service URL (empty disables NER)")
	rootCmd.PersistentFlags().StringVar(&flagLanguage, "language", "en", "text language passed to the recogniser")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "zerolog level")

	rootCmd.AddCommand(detectCmd, redactCmd, deredactCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Send()
		os.Exit(1)
	}
}
