package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/obralink/client/internal/domain/shared"
	"github.com/obralink/client/internal/domain/tender"
)

// Ensure TendersGateway implements the domain surfaces
var (
	_ tender.Reader = (*TendersGateway)(nil)
	_ tender.Writer = (*TendersGateway)(nil)
)

// TendersGateway is the typed proxy for the tenders-and-bids contract.
type TendersGateway struct {
	*binding
}

// NewTendersGateway binds the tenders contract at the given address.
func NewTendersGateway(addrHex string, backend Backend, opts ...Option) (*TendersGateway, error) {
	b, err := newBinding("tenders", addrHex, tendersABI, backend, opts...)
	if err != nil {
		return nil, err
	}
	return &TendersGateway{binding: b}, nil
}

// GetTender fetches the full tender record for an id.
func (g *TendersGateway) GetTender(ctx context.Context, id *big.Int) (*tender.Tender, error) {
	out, err := g.call(ctx, "getTender", id)
	if err != nil {
		return nil, err
	}
	t := &tender.Tender{
		ID:          *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		Name:        *abi.ConvertType(out[1], new(string)).(*string),
		Description: *abi.ConvertType(out[2], new(string)).(*string),
		Creator:     *abi.ConvertType(out[3], new(common.Address)).(*common.Address),
		MaxBudget:   *abi.ConvertType(out[4], new(*big.Int)).(**big.Int),
		CreatedAt:   unixTime(*abi.ConvertType(out[5], new(*big.Int)).(**big.Int)),
		Deadline:    unixTime(*abi.ConvertType(out[6], new(*big.Int)).(**big.Int)),
		DocumentCID: *abi.ConvertType(out[7], new(string)).(*string),
		Open:        *abi.ConvertType(out[8], new(bool)).(*bool),
		Awarded:     *abi.ConvertType(out[9], new(bool)).(*bool),
		Contractor:  *abi.ConvertType(out[10], new(common.Address)).(*common.Address),
		WinningBid:  *abi.ConvertType(out[11], new(*big.Int)).(**big.Int),
	}
	if t.ID == nil || t.ID.Sign() == 0 {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

// GetBid fetches the full bid record for an id.
func (g *TendersGateway) GetBid(ctx context.Context, id *big.Int) (*tender.Bid, error) {
	out, err := g.call(ctx, "getBid", id)
	if err != nil {
		return nil, err
	}
	b := &tender.Bid{
		ID:          *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		TenderID:    *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		Bidder:      *abi.ConvertType(out[2], new(common.Address)).(*common.Address),
		Amount:      *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		ProposalCID: *abi.ConvertType(out[5], new(string)).(*string),
		Selected:    *abi.ConvertType(out[6], new(bool)).(*bool),
	}
	if days := *abi.ConvertType(out[4], new(*big.Int)).(**big.Int); days != nil {
		b.EstimatedDays = days.Uint64()
	}
	if b.ID == nil || b.ID.Sign() == 0 {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

// TenderIDsByCreator returns the ids of tenders created by an account.
func (g *TendersGateway) TenderIDsByCreator(ctx context.Context, creator common.Address) ([]*big.Int, error) {
	out, err := g.call(ctx, "tenderIdsByCreator", creator)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// BidIDsByBidder returns the ids of bids submitted by an account.
func (g *TendersGateway) BidIDsByBidder(ctx context.Context, bidder common.Address) ([]*big.Int, error) {
	out, err := g.call(ctx, "bidIdsByBidder", bidder)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// BidIDsForTender returns the ids of bids received by a tender.
func (g *TendersGateway) BidIDsForTender(ctx context.Context, tenderID *big.Int) ([]*big.Int, error) {
	out, err := g.call(ctx, "bidIdsForTender", tenderID)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// CreatedInRange returns the tender ids carried by TenderCreated events in
// the inclusive block range.
func (g *TendersGateway) CreatedInRange(ctx context.Context, fromBlock, toBlock uint64) ([]*big.Int, error) {
	return g.filterIDs(ctx, "TenderCreated", fromBlock, toBlock)
}

// Create submits a new tender record.
func (g *TendersGateway) Create(ctx context.Context, args tender.CreateArgs) (*types.Transaction, error) {
	return g.transact(ctx, "createTender",
		args.Name,
		args.Description,
		args.MaxBudget,
		unixArg(args.Deadline),
		args.DocumentCID,
	)
}

// SubmitBid submits a bid on an open tender.
func (g *TendersGateway) SubmitBid(ctx context.Context, args tender.BidArgs) (*types.Transaction, error) {
	return g.transact(ctx, "submitBid",
		args.TenderID,
		args.Amount,
		new(big.Int).SetUint64(args.EstimatedDays),
		args.ProposalCID,
	)
}

// Award selects the winning bid for a tender.
func (g *TendersGateway) Award(ctx context.Context, tenderID, bidID *big.Int) (*types.Transaction, error) {
	return g.transact(ctx, "awardTender", tenderID, bidID)
}

// Close closes a tender without awarding it.
func (g *TendersGateway) Close(ctx context.Context, tenderID *big.Int) (*types.Transaction, error) {
	return g.transact(ctx, "closeTender", tenderID)
}

// WaitConfirmed blocks until the transaction is mined.
func (g *TendersGateway) WaitConfirmed(ctx context.Context, tx *types.Transaction) error {
	return g.waitConfirmed(ctx, tx)
}
