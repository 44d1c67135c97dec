// Package generator drives batch hand production: it runs table sessions,
// validates every produced record and selects the requested subsample.
package generator

import (
	"fmt"
	"math"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/handgen/internal/bot"
	"github.com/lox/handgen/internal/table"
)

// Config is the generator configuration, loaded from an HCL file.
type Config struct {
	Table    *TableConfig    `hcl:"table,block"`
	Profiles []ProfileConfig `hcl:"profile,block"`
}

// TableConfig holds the table parameters. Monetary values are in display
// units (the currency of the emitted records), not cents.
type TableConfig struct {
	SmallBlind float64 `hcl:"small_blind,optional"`
	BigBlind   float64 `hcl:"big_blind,optional"`
	MaxSeats   int     `hcl:"max_seats,optional"`
	RakeRate   float64 `hcl:"rake_rate,optional"`

	HeroStackMin float64 `hcl:"hero_stack_min,optional"`
	HeroStackMax float64 `hcl:"hero_stack_max,optional"`
	BotStackMin  float64 `hcl:"bot_stack_min,optional"`
	BotStackMax  float64 `hcl:"bot_stack_max,optional"`

	LeaveProb float64 `hcl:"leave_prob,optional"`
	JoinProb  float64 `hcl:"join_prob,optional"`

	SessionMinHands int   `hcl:"session_min_hands,optional"`
	SessionMaxHands int   `hcl:"session_max_hands,optional"`
	HandCounterBase int64 `hcl:"hand_counter_base,optional"`

	// Secret salts player anonymization and the hero identity. It must stay
	// stable across runs that should share a hero UID.
	Secret string `hcl:"secret,optional"`
}

// ProfileConfig is one bot behavioral parameter set. The sizing and risk
// knobs fall back to the balanced defaults when omitted.
type ProfileConfig struct {
	Name       string  `hcl:"name,label"`
	Tightness  float64 `hcl:"tightness"`
	Aggression float64 `hcl:"aggression"`
	BluffFreq  float64 `hcl:"bluff_freq"`

	MaxRiskFraction float64 `hcl:"max_risk_fraction,optional"`
	TiltFactor      float64 `hcl:"tilt_factor,optional"`
	BetPotSmall     float64 `hcl:"bet_pot_small,optional"`
	BetPotMedium    float64 `hcl:"bet_pot_medium,optional"`
	BetPotLarge     float64 `hcl:"bet_pot_large,optional"`
}

// DefaultConfig returns the stock configuration: 2c/5c six-max with the
// standard five-profile bot population.
func DefaultConfig() *Config {
	return &Config{
		Table: &TableConfig{
			SmallBlind:      0.02,
			BigBlind:        0.05,
			MaxSeats:        6,
			RakeRate:        0.05,
			HeroStackMin:    8.0,
			HeroStackMax:    12.0,
			BotStackMin:     4.0,
			BotStackMax:     15.0,
			LeaveProb:       0.10,
			JoinProb:        0.15,
			SessionMinHands: 20,
			SessionMaxHands: 50,
			HandCounterBase: 258890000000,
			Secret:          "handgen-dev",
		},
		Profiles: []ProfileConfig{
			{Name: "tight_aggressive", Tightness: 0.70, Aggression: 0.75, BluffFreq: 0.05},
			{Name: "loose_aggressive", Tightness: 0.40, Aggression: 0.80, BluffFreq: 0.12},
			{Name: "tight_passive", Tightness: 0.68, Aggression: 0.35, BluffFreq: 0.03},
			{Name: "loose_passive", Tightness: 0.42, Aggression: 0.30, BluffFreq: 0.08},
			{Name: "balanced", Tightness: 0.55, Aggression: 0.55, BluffFreq: 0.08},
		},
	}
}

// LoadConfig loads generator configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Table == nil {
		c.Table = def.Table
	}
	t := c.Table
	if t.SmallBlind == 0 {
		t.SmallBlind = def.Table.SmallBlind
	}
	if t.BigBlind == 0 {
		t.BigBlind = def.Table.BigBlind
	}
	if t.MaxSeats == 0 {
		t.MaxSeats = def.Table.MaxSeats
	}
	if t.RakeRate == 0 {
		t.RakeRate = def.Table.RakeRate
	}
	if t.HeroStackMin == 0 {
		t.HeroStackMin = def.Table.HeroStackMin
	}
	if t.HeroStackMax == 0 {
		t.HeroStackMax = def.Table.HeroStackMax
	}
	if t.BotStackMin == 0 {
		t.BotStackMin = def.Table.BotStackMin
	}
	if t.BotStackMax == 0 {
		t.BotStackMax = def.Table.BotStackMax
	}
	if t.LeaveProb == 0 {
		t.LeaveProb = def.Table.LeaveProb
	}
	if t.JoinProb == 0 {
		t.JoinProb = def.Table.JoinProb
	}
	if t.SessionMinHands == 0 {
		t.SessionMinHands = def.Table.SessionMinHands
	}
	if t.SessionMaxHands == 0 {
		t.SessionMaxHands = def.Table.SessionMaxHands
	}
	if t.HandCounterBase == 0 {
		t.HandCounterBase = def.Table.HandCounterBase
	}
	if t.Secret == "" {
		t.Secret = def.Table.Secret
	}
	if len(c.Profiles) == 0 {
		c.Profiles = def.Profiles
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	t := c.Table
	if t == nil {
		return fmt.Errorf("missing table block")
	}
	if t.SmallBlind <= 0 || t.BigBlind <= 0 {
		return fmt.Errorf("blinds must be positive (sb=%v bb=%v)", t.SmallBlind, t.BigBlind)
	}
	if t.SmallBlind >= t.BigBlind {
		return fmt.Errorf("small blind %v must be below big blind %v", t.SmallBlind, t.BigBlind)
	}
	if t.MaxSeats < 2 {
		return fmt.Errorf("max_seats must be at least 2, got %d", t.MaxSeats)
	}
	if t.RakeRate < 0 || t.RakeRate >= 1 {
		return fmt.Errorf("rake_rate must be in [0, 1), got %v", t.RakeRate)
	}
	if t.HeroStackMin > t.HeroStackMax || t.BotStackMin > t.BotStackMax {
		return fmt.Errorf("stack ranges must have min <= max")
	}
	if t.LeaveProb < 0 || t.LeaveProb > 1 || t.JoinProb < 0 || t.JoinProb > 1 {
		return fmt.Errorf("churn probabilities must be in [0, 1]")
	}
	if t.SessionMinHands < 1 || t.SessionMinHands > t.SessionMaxHands {
		return fmt.Errorf("session hand range %d..%d is invalid", t.SessionMinHands, t.SessionMaxHands)
	}
	for _, p := range c.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profile without a name")
		}
		if p.Tightness < 0 || p.Tightness > 1 || p.Aggression < 0 || p.Aggression > 1 || p.BluffFreq < 0 || p.BluffFreq > 1 {
			return fmt.Errorf("profile %q: tightness/aggression/bluff_freq must be in [0, 1]", p.Name)
		}
	}
	return nil
}

// TableSessionConfig converts the display-unit configuration into the cents
// representation the table and engine work in.
func (c *Config) TableSessionConfig() table.Config {
	t := c.Table
	return table.Config{
		SmallBlind:   cents(t.SmallBlind),
		BigBlind:     cents(t.BigBlind),
		MaxSeats:     t.MaxSeats,
		RakeRate:     t.RakeRate,
		HeroStackMin: cents(t.HeroStackMin),
		HeroStackMax: cents(t.HeroStackMax),
		BotStackMin:  cents(t.BotStackMin),
		BotStackMax:  cents(t.BotStackMax),
		LeaveProb:    t.LeaveProb,
		JoinProb:     t.JoinProb,
		Secret:       t.Secret,
		Profiles:     c.BotProfiles(),
	}
}

// BotProfiles converts the profile blocks into bot profiles, filling
// unset knobs from the balanced defaults.
func (c *Config) BotProfiles() []bot.Profile {
	def := bot.DefaultProfile()
	profiles := make([]bot.Profile, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		bp := bot.Profile{
			Name:                 p.Name,
			Tightness:            p.Tightness,
			Aggression:           p.Aggression,
			BluffFreq:            p.BluffFreq,
			MaxRiskFraction:      p.MaxRiskFraction,
			TiltFactor:           p.TiltFactor,
			BetPotFractionSmall:  p.BetPotSmall,
			BetPotFractionMedium: p.BetPotMedium,
			BetPotFractionLarge:  p.BetPotLarge,
		}
		if bp.MaxRiskFraction == 0 {
			bp.MaxRiskFraction = def.MaxRiskFraction
		}
		if bp.BetPotFractionSmall == 0 {
			bp.BetPotFractionSmall = def.BetPotFractionSmall
		}
		if bp.BetPotFractionMedium == 0 {
			bp.BetPotFractionMedium = def.BetPotFractionMedium
		}
		if bp.BetPotFractionLarge == 0 {
			bp.BetPotFractionLarge = def.BetPotFractionLarge
		}
		profiles = append(profiles, bp)
	}
	return profiles
}

func cents(v float64) int {
	return int(math.Round(v * 100))
}
