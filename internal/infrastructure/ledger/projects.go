package ledger

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/obralink/client/internal/domain/project"
	"github.com/obralink/client/internal/domain/shared"
)

// Ensure ProjectsGateway implements the domain surfaces
var (
	_ project.Reader = (*ProjectsGateway)(nil)
	_ project.Writer = (*ProjectsGateway)(nil)
)

// ProjectsGateway is the typed proxy for the construction-projects contract.
type ProjectsGateway struct {
	*binding
}

// NewProjectsGateway binds the projects contract at the given address.
func NewProjectsGateway(addrHex string, backend Backend, opts ...Option) (*ProjectsGateway, error) {
	b, err := newBinding("projects", addrHex, projectsABI, backend, opts...)
	if err != nil {
		return nil, err
	}
	return &ProjectsGateway{binding: b}, nil
}

// Get fetches the full project record for an id.
func (g *ProjectsGateway) Get(ctx context.Context, id *big.Int) (*project.Project, error) {
	out, err := g.call(ctx, "getProject", id)
	if err != nil {
		return nil, err
	}
	p := &project.Project{
		ID:             *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		Name:           *abi.ConvertType(out[1], new(string)).(*string),
		Location:       *abi.ConvertType(out[2], new(string)).(*string),
		TotalBudget:    *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		AvailableFunds: *abi.ConvertType(out[4], new(*big.Int)).(**big.Int),
		StartDate:      unixTime(*abi.ConvertType(out[5], new(*big.Int)).(**big.Int)),
		PlannedEndDate: unixTime(*abi.ConvertType(out[6], new(*big.Int)).(**big.Int)),
		Owner:          *abi.ConvertType(out[7], new(common.Address)).(*common.Address),
		Active:         *abi.ConvertType(out[8], new(bool)).(*bool),
		Phase:          project.Phase(*abi.ConvertType(out[9], new(uint8)).(*uint8)),
	}
	if p.ID == nil || p.ID.Sign() == 0 {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

// IDsByOwner returns the ids of projects owned by an account.
func (g *ProjectsGateway) IDsByOwner(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	out, err := g.call(ctx, "projectIdsByOwner", owner)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// Create submits a new project record.
func (g *ProjectsGateway) Create(ctx context.Context, name, location string, totalBudget *big.Int, start, plannedEnd time.Time) (*types.Transaction, error) {
	return g.transact(ctx, "createProject", name, location, totalBudget, unixArg(start), unixArg(plannedEnd))
}

// AdvancePhase pushes a project to its next lifecycle stage.
func (g *ProjectsGateway) AdvancePhase(ctx context.Context, id *big.Int) (*types.Transaction, error) {
	return g.transact(ctx, "advancePhase", id)
}

// WaitConfirmed blocks until the transaction is mined.
func (g *ProjectsGateway) WaitConfirmed(ctx context.Context, tx *types.Transaction) error {
	return g.waitConfirmed(ctx, tx)
}
