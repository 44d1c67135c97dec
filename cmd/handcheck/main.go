// Command handcheck validates hand record files offline. It runs both the
// semantic validator and the JSON Schema over every hand in the given files
// and reports violations, exiting non-zero if any are found.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/handgen/internal/record"
)

type CLI struct {
	Files   []string `arg:"" type:"existingfile" help:"Hand JSON files (each an array of hand objects)"`
	Schema  bool     `default:"true" negatable:"" help:"Also run the JSON Schema check"`
	Verbose bool     `short:"v" help:"Verbose logging"`
}

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	var schema *record.SchemaValidator
	if cli.Schema {
		var err error
		schema, err = record.NewSchemaValidator()
		kctx.FatalIfErrorf(err)
	}

	totalHands := 0
	totalViolations := 0
	for _, file := range cli.Files {
		hands, violations, err := checkFile(file, schema, logger)
		kctx.FatalIfErrorf(err)
		totalHands += hands
		totalViolations += violations
	}

	if totalViolations > 0 {
		fmt.Println(failStyle.Render(fmt.Sprintf("FAIL: %d violation(s) across %d hand(s)", totalViolations, totalHands)))
		os.Exit(1)
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("OK: %d hand(s) consistent", totalHands)))
}

func checkFile(file string, schema *record.SchemaValidator, logger *log.Logger) (hands, violations int, err error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", file, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, 0, fmt.Errorf("%s: not a JSON array of hands: %w", file, err)
	}

	for i, handJSON := range raw {
		logger.Debug("checking hand", "file", file, "index", i)
		for _, v := range record.ValidateJSON(handJSON) {
			fmt.Printf("%s: hand %d: %s\n", file, i, v)
			violations++
		}
		if schema != nil {
			if err := schema.ValidateBytes(handJSON); err != nil {
				fmt.Printf("%s: hand %d: %v\n", file, i, err)
				violations++
			}
		}
	}
	return len(raw), violations, nil
}
