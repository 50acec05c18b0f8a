package certification

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// IssueArgs are the creation fields for a new certification. ExpiresAt may
// be the zero time for a certification that never expires.
type IssueArgs struct {
	Name        string
	Description string
	Recipient   common.Address
	ExpiresAt   time.Time
	DocumentCID string
	Kind        Kind
}

// Reader is the read-only ledger surface for certifications.
type Reader interface {
	Get(ctx context.Context, id *big.Int) (*Certification, error)
	IDsByRecipient(ctx context.Context, recipient common.Address) ([]*big.Int, error)
	IDsByIssuer(ctx context.Context, issuer common.Address) ([]*big.Int, error)

	// CentralAuthority returns the account allowed to revoke any
	// certification.
	CentralAuthority(ctx context.Context) (common.Address, error)

	// Verify runs the contract's validity check without submitting a
	// transaction.
	Verify(ctx context.Context, id *big.Int) (bool, error)
}

// Writer is the mutating ledger surface for certifications.
type Writer interface {
	Issue(ctx context.Context, args IssueArgs) (*types.Transaction, error)
	Revoke(ctx context.Context, id *big.Int) (*types.Transaction, error)
	WaitConfirmed(ctx context.Context, tx *types.Transaction) error
}
