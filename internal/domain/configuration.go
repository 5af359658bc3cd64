package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SolverSettings are the search parameters shared by the solve and rank commands.
type SolverSettings struct {
	// Ratio spreads income-tax increments across brackets; 1 is a flat increase.
	Ratio         decimal.Decimal `yaml:"ratio" json:"ratio" validate:"gte=1"`
	Increments    LeverSet        `yaml:"increments" json:"increments"`
	Caps          LeverSet        `yaml:"caps" json:"caps"`
	MaxIterations int             `yaml:"max_iterations" json:"max_iterations" validate:"gte=0"`
}

// Request builds a solve request; the target is filled in by the engine.
func (s SolverSettings) Request() SolveRequest {
	return SolveRequest{
		Ratio:         s.Ratio,
		Increments:    s.Increments,
		Caps:          s.Caps,
		MaxIterations: s.MaxIterations,
	}
}

// Configuration represents the complete input configuration of a run.
type Configuration struct {
	DataFile      string         `yaml:"data_file" json:"data_file"`
	Assumptions   Assumptions    `yaml:"assumptions" json:"assumptions"`
	Coverage      Coverage       `yaml:"coverage" json:"coverage"`
	CurrentPolicy Policy         `yaml:"current_policy" json:"current_policy"`
	Proposals     []Proposal     `yaml:"proposals" json:"proposals" validate:"dive"`
	Solver        SolverSettings `yaml:"solver" json:"solver"`
	Taxpayer      Taxpayer       `yaml:"taxpayer" json:"taxpayer"`
}

// Proposal returns the named proposal.
func (c *Configuration) Proposal(name string) (Proposal, error) {
	for _, p := range c.Proposals {
		if p.Name == name {
			return p, nil
		}
	}
	return Proposal{}, fmt.Errorf("proposal %q not found", name)
}

// ProposedPolicy derives the named proposal's policy from the current policy.
func (c *Configuration) ProposedPolicy(name string) (Policy, error) {
	p, err := c.Proposal(name)
	if err != nil {
		return Policy{}, err
	}
	return c.CurrentPolicy.WithProposal(p)
}
