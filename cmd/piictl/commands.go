package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"

	"github.com/privasend/privasend/lib/pii"
	"github.com/privasend/privasend/lib/pipeline"
	http_recogniser "github.com/privasend/privasend/lib/recogniser/http-recogniser"
	"github.com/privasend/privasend/lib/redaction"
)

var (
	flagThreshold  float64
	flagMappingOut string
	flagMappingIn  string
)

func init() {
	redactCmd.Flags().Float64Var(&flagThreshold, "threshold", 0.65, "minimum confidence to redact")
	redactCmd.Flags().StringVar(&flagMappingOut, "mapping-out", "", "write the placeholder mapping to this JSON file")
	deredactCmd.Flags().StringVar(&flagMappingIn, "mapping", "", "JSON file with the placeholder mapping (required)")
	_ = deredactCmd.MarkFlagRequired("mapping")
}

// readInput returns the text to process: the first argument as a file path,
// or stdin when no argument is given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		b, err := ioutil.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := ioutil.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func detectEntities(cmd *cobra.Command, text string) []pii.Entity {
	opts := pipeline.Options{Language: flagLanguage}
	if flagNERUrl != "" {
		opts.EnableNER = true
		opts.Recogniser = http_recogniser.NewClient(flagNERUrl)
	}
	return pipeline.Detect(cmd.Context(), text, opts)
}

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Detect PII and print entities as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		entities := detectEntities(cmd, text)
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entities)
	},
}

var redactCmd = &cobra.Command{
	Use:   "redact [file]",
	Short: "Redact PII, printing redacted text to stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		entities := detectEntities(cmd, text)
		redactable := make([]pii.Entity, 0, len(entities))
		for _, e := range entities {
			if e.Confidence >= flagThreshold {
				redactable = append(redactable, e)
			}
		}

		result := redaction.Redact(text, redactable)
		fmt.Fprint(os.Stdout, result.RedactedText)

		if flagMappingOut != "" {
			b, err := json.MarshalIndent(result.Mapping, "", "  ")
			if err != nil {
				return err
			}
			if err := ioutil.WriteFile(flagMappingOut, b, 0600); err != nil {
				return err
			}
		}
		return nil
	},
}

var deredactCmd = &cobra.Command{
	Use:   "deredact [file]",
	Short: "Restore original values from a redaction mapping",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		b, err := ioutil.ReadFile(flagMappingIn)
		if err != nil {
			return err
		}
		var mapping map[string]string
		if err := json.Unmarshal(b, &mapping); err != nil {
			return err
		}

		fmt.Fprint(os.Stdout, redaction.Deredact(text, mapping))
		return nil
	},
}
