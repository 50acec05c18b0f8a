// Package tender holds the tender and bid record domain.
package tender

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Tender is a ledger-held call for bids. Contractor and WinningBid are
// zero until the tender is awarded.
type Tender struct {
	ID          *big.Int
	Name        string
	Description string
	Creator     common.Address
	MaxBudget   *big.Int
	CreatedAt   time.Time
	Deadline    time.Time
	DocumentCID string
	Open        bool
	Awarded     bool
	Contractor  common.Address
	WinningBid  *big.Int
}

// OpenFor returns true if the tender accepts bids from the given account:
// still open, not yet awarded, and not created by that account.
func (t *Tender) OpenFor(account common.Address) bool {
	return t.Open && !t.Awarded && t.Creator != account
}

// CanAward returns true if the actor may award a bid on this tender
func (t *Tender) CanAward(actor common.Address) bool {
	return t.Open && !t.Awarded && t.Creator == actor
}

// Bid is a contractor's offer on a tender.
type Bid struct {
	ID            *big.Int
	TenderID      *big.Int
	Bidder        common.Address
	Amount        *big.Int
	EstimatedDays uint64
	ProposalCID   string
	Selected      bool
}
