// Package project holds the construction-project record domain.
package project

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Phase is the lifecycle stage of a construction project. Only the ledger
// advances it; the client never mutates a fetched record.
type Phase uint8

const (
	PhasePlanning Phase = iota
	PhaseDesign
	PhasePermits
	PhaseConstruction
	PhaseInspection
	PhaseCompleted
)

// String returns the string representation of Phase
func (p Phase) String() string {
	switch p {
	case PhasePlanning:
		return "Planning"
	case PhaseDesign:
		return "Design"
	case PhasePermits:
		return "Permits"
	case PhaseConstruction:
		return "Construction"
	case PhaseInspection:
		return "Inspection"
	case PhaseCompleted:
		return "Completed"
	}
	return "Unknown"
}

// IsValid returns true if the phase is one of the ledger-defined stages
func (p Phase) IsValid() bool {
	return p <= PhaseCompleted
}

// IsFinal returns true if the project can no longer advance
func (p Phase) IsFinal() bool {
	return p == PhaseCompleted
}

// Project is a ledger-held construction project record. The id is assigned
// by the ledger and immutable; timestamps are zero when unset on-chain.
type Project struct {
	ID             *big.Int
	Name           string
	Location       string
	TotalBudget    *big.Int
	AvailableFunds *big.Int
	StartDate      time.Time
	PlannedEndDate time.Time
	Owner          common.Address
	Active         bool
	Phase          Phase
}

// CanAdvance returns true if the owner may push the project to its next phase
func (p *Project) CanAdvance(actor common.Address) bool {
	return p.Active && !p.Phase.IsFinal() && p.Owner == actor
}
