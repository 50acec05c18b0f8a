package tender

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// CreateArgs are the creation fields for a new tender.
type CreateArgs struct {
	Name        string
	Description string
	MaxBudget   *big.Int
	Deadline    time.Time
	DocumentCID string
}

// BidArgs are the submission fields for a bid on an open tender.
type BidArgs struct {
	TenderID      *big.Int
	Amount        *big.Int
	EstimatedDays uint64
	ProposalCID   string
}

// Reader is the read-only ledger surface for tenders and bids.
type Reader interface {
	GetTender(ctx context.Context, id *big.Int) (*Tender, error)
	GetBid(ctx context.Context, id *big.Int) (*Bid, error)
	TenderIDsByCreator(ctx context.Context, creator common.Address) ([]*big.Int, error)
	BidIDsByBidder(ctx context.Context, bidder common.Address) ([]*big.Int, error)
	BidIDsForTender(ctx context.Context, tenderID *big.Int) ([]*big.Int, error)

	// CreatedInRange returns the ids carried by TenderCreated events in
	// the inclusive block range. Partitioning the chain into ranges is
	// the caller's responsibility.
	CreatedInRange(ctx context.Context, fromBlock, toBlock uint64) ([]*big.Int, error)
}

// Writer is the mutating ledger surface for tenders and bids.
type Writer interface {
	Create(ctx context.Context, args CreateArgs) (*types.Transaction, error)
	SubmitBid(ctx context.Context, args BidArgs) (*types.Transaction, error)
	Award(ctx context.Context, tenderID, bidID *big.Int) (*types.Transaction, error)
	Close(ctx context.Context, tenderID *big.Int) (*types.Transaction, error)
	WaitConfirmed(ctx context.Context, tx *types.Transaction) error
}
