// Package demand buckets a day's market vacancy and average price into a
// demand level from 0 (quiet) to MaxLevel (sold out or very expensive).
package demand

import (
	"errors"
	"fmt"
)

const MaxLevel = 5

// Tier fires when vacancy is at or below MaxVacancy, or the average price is
// at or above MinPrice. Either condition alone is enough.
type Tier struct {
	Level      int     `mapstructure:"level" json:"level"`
	MaxVacancy int     `mapstructure:"max_vacancy" json:"max_vacancy"`
	MinPrice   float64 `mapstructure:"min_price" json:"min_price"`
}

// DefaultTiers is the ladder used for the 1-person market.
var DefaultTiers = []Tier{
	{Level: 5, MaxVacancy: 70, MinPrice: 50000},
	{Level: 4, MaxVacancy: 100, MinPrice: 40000},
	{Level: 3, MaxVacancy: 150, MinPrice: 35000},
	{Level: 2, MaxVacancy: 200, MinPrice: 30000},
	{Level: 1, MaxVacancy: 250, MinPrice: 25000},
}

type Classifier struct {
	tiers []Tier
}

// New validates that tiers are ordered from the highest level down and that
// every level lies in 1..MaxLevel.
func New(tiers []Tier) (*Classifier, error) {
	if len(tiers) == 0 {
		return nil, errors.New("demand: empty tier table")
	}
	for i, t := range tiers {
		if t.Level < 1 || t.Level > MaxLevel {
			return nil, fmt.Errorf("demand: tier %d has level %d, want 1..%d", i, t.Level, MaxLevel)
		}
		if i > 0 && t.Level >= tiers[i-1].Level {
			return nil, fmt.Errorf("demand: tier %d (level %d) is not below level %d", i, t.Level, tiers[i-1].Level)
		}
	}
	return &Classifier{tiers: append([]Tier(nil), tiers...)}, nil
}

func Default() *Classifier {
	return &Classifier{tiers: append([]Tier(nil), DefaultTiers...)}
}

// Classify walks the ladder top-down and returns the first level whose
// vacancy or price condition holds. Both inputs are required; a missing one
// yields 0.
func (c *Classifier) Classify(vacancy *int, avgPrice *float64) int {
	if c == nil || vacancy == nil || avgPrice == nil {
		return 0
	}
	for _, t := range c.tiers {
		if *vacancy <= t.MaxVacancy || *avgPrice >= t.MinPrice {
			return t.Level
		}
	}
	return 0
}

func (c *Classifier) Tiers() []Tier {
	if c == nil {
		return nil
	}
	return append([]Tier(nil), c.tiers...)
}
