// Command handgen generates a batch of bot-played hand records: it plays a
// configured number of hands across table sessions, validates every record
// and writes a random subsample to a JSON file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/handgen/internal/fileutil"
	"github.com/lox/handgen/internal/generator"
	"github.com/lox/handgen/internal/strength"
)

type CLI struct {
	Config    string `short:"c" default:"handgen.hcl" help:"HCL config file (missing file uses defaults)"`
	Hands     int    `short:"n" default:"1000" help:"Number of hands to play"`
	Select    int    `short:"s" default:"100" help:"Number of played hands to keep"`
	Output    string `short:"o" default:"bot_hands.json" help:"Output JSON file"`
	Strengths string `help:"External starting-hand strength CSV (default: embedded table)"`
	Seed      int64  `default:"0" help:"RNG seed (0 for random)"`
	Workers   int    `default:"1" help:"Concurrent table sessions"`
	Verbose   bool   `short:"v" help:"Verbose logging"`
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	valueStyle = lipgloss.NewStyle().Bold(true)
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	level := log.InfoLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	kctx.FatalIfErrorf(run(cli, logger))
}

func run(cli CLI, logger *log.Logger) error {
	cfg, err := generator.LoadConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	strengths := loadStrengths(cli.Strengths, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting generation",
		"hands", cli.Hands, "select", cli.Select, "seed", cli.Seed, "workers", cli.Workers)
	start := time.Now()

	gen := generator.New(cfg, strengths, logger, generator.Options{
		Seed:    cli.Seed,
		Workers: cli.Workers,
	})
	result, err := gen.Run(ctx, cli.Hands, cli.Select)
	if err != nil {
		return err
	}

	if err := fileutil.WriteJSONAtomic(cli.Output, result.Hands, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSummary(cli.Output, result.Stats, time.Since(start))
	return nil
}

// loadStrengths resolves the strength table. Failure is not fatal: agents
// degrade to pseudo-random strengths.
func loadStrengths(path string, logger *log.Logger) strength.Table {
	var (
		table strength.Table
		err   error
	)
	if path != "" {
		table, err = strength.LoadFile(path)
	} else {
		table, err = strength.Load()
	}
	if err != nil {
		logger.Warn("strength table unavailable, using pseudo-random strengths", "err", err)
		return nil
	}
	return table
}

func printSummary(output string, stats generator.Counts, elapsed time.Duration) {
	row := func(label string, value any) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(fmt.Sprintf("%v", value))
	}
	fmt.Println()
	fmt.Println(titleStyle.Render("Generation complete"))
	fmt.Println(row("Played", stats.Played))
	fmt.Println(row("Selected", stats.Selected))
	fmt.Println(row("Sessions", stats.Sessions))
	fmt.Println(row("Showdowns", stats.Showdowns))
	fmt.Println(row("Fold wins", stats.FoldWins))
	fmt.Println(row("Skipped", stats.Skipped))
	fmt.Println(row("Invalid", stats.Invalid))
	fmt.Println(row("Elapsed", elapsed.Round(time.Millisecond)))
	fmt.Println(row("Output", output))
}
