package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lox/mancala/cmd/mancala/shared"
	"github.com/lox/mancala/internal/bot"
	"github.com/lox/mancala/internal/match"
)

type SimulateCmd struct {
	First       string `arg:"" optional:"" default:"greedy" help:"First bot (random, greedy, engine)"`
	Second      string `arg:"" optional:"" default:"random" help:"Second bot (random, greedy, engine)"`
	Games       int    `short:"n" default:"100" help:"Number of games; seats alternate between games"`
	Concurrency int    `short:"j" help:"Games in flight (default: GOMAXPROCS)"`
	Ruleset     string `short:"r" help:"Ruleset name from the config file (default: first declared)"`
	Seed        *int64 `help:"Series seed (default: config seed)"`
	MaxTurns    int    `default:"1000" help:"Abandon a game after this many moves"`
	Retries     int    `default:"1" help:"Re-ask the engine this many times after a timeout"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	logger := globals.logger()
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	if err := validateKinds(c.First, c.Second); err != nil {
		return err
	}
	if strings.EqualFold(c.First, bot.KindHuman) || strings.EqualFold(c.Second, bot.KindHuman) {
		return fmt.Errorf("simulate needs two bots, not a human")
	}
	rules, err := cfg.Ruleset(c.Ruleset)
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	first := agentFactory{kind: c.First, settings: cfg.Engine, logger: logger}
	second := agentFactory{kind: c.Second, settings: cfg.Engine, logger: logger}
	if needsEngine(c.First, c.Second) {
		// One engine process serves every game; its client serialises requests.
		client, err := startEngine(ctx, cfg.Engine, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		first.searcher = client
		second.searcher = client
	}

	started := time.Now()
	sr, err := match.RunSeries(ctx, match.SeriesConfig{
		Games:       c.Games,
		Concurrency: c.Concurrency,
		Seed:        seed,
		Rules:       rules,
		MaxTurns:    c.MaxTurns,
		Retries:     c.Retries,
		Logger:      logger,
	}, asAgentFactory(first), asAgentFactory(second))
	if err != nil {
		return err
	}

	printSeries(os.Stdout, sr, rules.String(), seed, time.Since(started))
	return nil
}

func asAgentFactory(f agentFactory) match.AgentFactory {
	return func(seed int64) (match.Agent, error) {
		return f.build(seed)
	}
}

func printSeries(w io.Writer, sr *match.SeriesResult, rules string, seed int64, elapsed time.Duration) {
	s := sr.Stats
	low, high := s.ConfidenceInterval95()

	fmt.Fprintf(w, "%s vs %s, %s, seed %d\n", sr.Names[0], sr.Names[1], rules, seed)
	fmt.Fprintf(w, "Games:        %d in %s\n", s.Games, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Record:       %d won, %d lost, %d tied (win rate %.1f%%)\n",
		s.Wins, s.Losses, s.Ties, 100*s.WinRate())
	fmt.Fprintf(w, "Margin:       %+.2f ± %.2f (95%% CI %+.2f to %+.2f)\n",
		s.Mean(), s.StdError()*1.96, low, high)
	fmt.Fprintf(w, "Median:       %+.1f\n", s.Median())
	fmt.Fprintf(w, "Side 0:       %+.2f over %d games\n", s.SeatMean(0), s.SeatResults[0].Games)
	fmt.Fprintf(w, "Side 1:       %+.2f over %d games\n", s.SeatMean(1), s.SeatResults[1].Games)
	fmt.Fprintf(w, "Turns:        %.1f average, %d longest\n", s.AverageTurns(), s.MaxTurns)
}
