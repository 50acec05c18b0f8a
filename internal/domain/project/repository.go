package project

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Reader is the read-only ledger surface for projects. Implementations
// never require a signer.
type Reader interface {
	// Get fetches the full record for an id; shared.ErrNotFound when the
	// id has never been assigned.
	Get(ctx context.Context, id *big.Int) (*Project, error)

	// IDsByOwner returns the ids of projects owned by an account.
	IDsByOwner(ctx context.Context, owner common.Address) ([]*big.Int, error)
}

// Writer is the mutating ledger surface for projects. Construction fails
// without a signer. Submissions return the pending transaction; callers
// observe confirmation through WaitConfirmed and must not report success
// before it returns.
type Writer interface {
	Create(ctx context.Context, name, location string, totalBudget *big.Int, start, plannedEnd time.Time) (*types.Transaction, error)
	AdvancePhase(ctx context.Context, id *big.Int) (*types.Transaction, error)

	// WaitConfirmed blocks until the transaction is mined and returns a
	// LedgerRejectedError if it reverted.
	WaitConfirmed(ctx context.Context, tx *types.Transaction) error
}
