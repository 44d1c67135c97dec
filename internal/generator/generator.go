package generator

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/handgen/internal/engine"
	"github.com/lox/handgen/internal/randutil"
	"github.com/lox/handgen/internal/record"
	"github.com/lox/handgen/internal/strength"
	"github.com/lox/handgen/internal/table"
)

// sessionCounterStride spaces the hand id ranges of concurrent sessions so
// ids stay unique without cross-session coordination.
const sessionCounterStride = 1_000_000

// Options tunes a generation run.
type Options struct {
	// Seed drives the whole run: session seeds derive from it, so a run is
	// reproducible given the same seed, config and worker count of one.
	Seed int64

	// Workers is the number of concurrent table sessions. Zero means one.
	Workers int

	// Clock is used by the progress reporter. Nil means the real clock.
	Clock quartz.Clock
}

// Generator produces batches of validated hand records.
type Generator struct {
	cfg       *Config
	strengths strength.Table
	engine    *engine.Engine
	logger    *log.Logger
	opts      Options
}

// Result is the outcome of a generation run.
type Result struct {
	Hands []*record.Hand
	Stats Counts
}

// New builds a Generator. The strength table may be empty; agents then fall
// back to pseudo-random strengths.
func New(cfg *Config, strengths strength.Table, logger *log.Logger, opts Options) *Generator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	return &Generator{
		cfg:       cfg,
		strengths: strengths,
		engine:    engine.New(logger),
		logger:    logger.WithPrefix("generator"),
		opts:      opts,
	}
}

// Run plays numPlay hands across table sessions and returns a random
// subsample of numSelect of them. Every returned hand passed the semantic
// validator.
func (g *Generator) Run(ctx context.Context, numPlay, numSelect int) (*Result, error) {
	if numPlay < 1 {
		return nil, fmt.Errorf("num hands to play must be positive, got %d", numPlay)
	}
	if numSelect < 1 || numSelect > numPlay {
		return nil, fmt.Errorf("num hands to select must be in 1..%d, got %d", numPlay, numSelect)
	}

	master := randutil.New(g.opts.Seed)
	stats := &Stats{}

	progressCtx, cancelProgress := context.WithCancel(ctx)
	defer cancelProgress()
	reporter := newProgressReporter(g.opts.Clock, g.logger, stats, numPlay)
	go reporter.run(progressCtx)

	var mu sync.Mutex // guards master, hands and the session dispenser
	var hands []*record.Hand
	sessionIndex := 0

	// nextSession hands out the next session's index and length, or ok=false
	// when the target is covered.
	nextSession := func() (index, length int, ok bool) {
		mu.Lock()
		defer mu.Unlock()
		remaining := numPlay - stats.Snapshot().Played
		if remaining <= 0 {
			return 0, 0, false
		}
		index = sessionIndex
		sessionIndex++
		minHands := g.cfg.Table.SessionMinHands
		maxHands := g.cfg.Table.SessionMaxHands
		length = minHands + master.IntN(maxHands-minHands+1)
		if length > remaining {
			length = remaining
		}
		return index, length, true
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	for w := 0; w < g.opts.Workers; w++ {
		grp.Go(func() error {
			for {
				if err := grpCtx.Err(); err != nil {
					return err
				}
				index, length, ok := nextSession()
				if !ok {
					return nil
				}
				produced, err := g.runSession(index, length, stats)
				if err != nil {
					return err
				}
				mu.Lock()
				hands = append(hands, produced...)
				mu.Unlock()
			}
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	// Random subsample, drawn from the master stream.
	if numSelect < len(hands) {
		master.Shuffle(len(hands), func(i, j int) { hands[i], hands[j] = hands[j], hands[i] })
		hands = hands[:numSelect]
	}
	stats.setSelected(len(hands))

	snap := stats.Snapshot()
	g.logger.Info("generation complete",
		"played", snap.Played, "selected", snap.Selected,
		"skipped", snap.Skipped, "invalid", snap.Invalid,
		"sessions", snap.Sessions)
	return &Result{Hands: hands, Stats: snap}, nil
}

// runSession plays one table session of up to length hands and returns the
// valid records it produced.
func (g *Generator) runSession(index, length int, stats *Stats) ([]*record.Hand, error) {
	seed := randutil.DeriveSeed(g.opts.Seed, index)
	sessionID := fmt.Sprintf("table_%d", index+1)
	sess := table.NewSession(sessionID, g.cfg.TableSessionConfig(), seed, g.strengths, g.logger)
	sess.Init()

	commitment := seedCommitment(g.cfg.Table.Secret, seed)
	handCounter := g.cfg.Table.HandCounterBase + int64(index)*sessionCounterStride
	rng := sess.RNG()

	g.logger.Debug("session start", "session", sessionID, "hands", length, "seed", seed)

	var hands []*record.Hand
	for i := 0; i < length; i++ {
		handCounter += 1 + rng.Int64N(100)
		handID := strconv.FormatInt(handCounter, 10)

		h, err := g.engine.PlayHand(sess, handID, &commitment)
		switch {
		case errors.Is(err, table.ErrNotEnoughPlayers):
			stats.addSkipped()
		case err != nil:
			g.logger.Warn("hand abandoned", "session", sessionID, "hand", handID, "err", err)
			stats.addInvalid()
		default:
			if violations := record.Validate(h); len(violations) > 0 {
				g.logger.Warn("hand failed validation",
					"session", sessionID, "hand", handID, "violations", violations)
				stats.addInvalid()
			} else {
				hands = append(hands, h)
				stats.addHand(h.Outcome.Showdown)
			}
		}

		sess.RotateButton()
		if i > 0 && i < length-1 {
			sess.HandleChurn()
		}
	}
	stats.addSession()
	return hands, nil
}

func seedCommitment(secret string, seed int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", secret, seed)))
	return fmt.Sprintf("%x", sum)
}
