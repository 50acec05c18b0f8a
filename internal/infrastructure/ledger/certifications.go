package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/obralink/client/internal/domain/certification"
	"github.com/obralink/client/internal/domain/shared"
)

// Ensure CertificationsGateway implements the domain surfaces
var (
	_ certification.Reader = (*CertificationsGateway)(nil)
	_ certification.Writer = (*CertificationsGateway)(nil)
)

// CertificationsGateway is the typed proxy for the works-certifications
// contract.
type CertificationsGateway struct {
	*binding
}

// NewCertificationsGateway binds the certifications contract at the given
// address.
func NewCertificationsGateway(addrHex string, backend Backend, opts ...Option) (*CertificationsGateway, error) {
	b, err := newBinding("certifications", addrHex, certificationsABI, backend, opts...)
	if err != nil {
		return nil, err
	}
	return &CertificationsGateway{binding: b}, nil
}

// Get fetches the full certification record for an id.
func (g *CertificationsGateway) Get(ctx context.Context, id *big.Int) (*certification.Certification, error) {
	out, err := g.call(ctx, "getCertification", id)
	if err != nil {
		return nil, err
	}
	c := &certification.Certification{
		ID:          *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		Name:        *abi.ConvertType(out[1], new(string)).(*string),
		Description: *abi.ConvertType(out[2], new(string)).(*string),
		Issuer:      *abi.ConvertType(out[3], new(common.Address)).(*common.Address),
		Recipient:   *abi.ConvertType(out[4], new(common.Address)).(*common.Address),
		IssuedAt:    unixTime(*abi.ConvertType(out[5], new(*big.Int)).(**big.Int)),
		ExpiresAt:   unixTime(*abi.ConvertType(out[6], new(*big.Int)).(**big.Int)),
		DocumentCID: *abi.ConvertType(out[7], new(string)).(*string),
		Kind:        certification.Kind(*abi.ConvertType(out[8], new(uint8)).(*uint8)),
		Revoked:     *abi.ConvertType(out[9], new(bool)).(*bool),
	}
	if c.ID == nil || c.ID.Sign() == 0 {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

// IDsByRecipient returns the ids of certifications received by an account.
func (g *CertificationsGateway) IDsByRecipient(ctx context.Context, recipient common.Address) ([]*big.Int, error) {
	out, err := g.call(ctx, "certificationIdsByRecipient", recipient)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// IDsByIssuer returns the ids of certifications issued by an account.
func (g *CertificationsGateway) IDsByIssuer(ctx context.Context, issuer common.Address) ([]*big.Int, error) {
	out, err := g.call(ctx, "certificationIdsByIssuer", issuer)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// CentralAuthority returns the account allowed to revoke any certification.
func (g *CertificationsGateway) CentralAuthority(ctx context.Context) (common.Address, error) {
	out, err := g.call(ctx, "centralAuthority")
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// Verify runs the contract's validity check without submitting a
// transaction.
func (g *CertificationsGateway) Verify(ctx context.Context, id *big.Int) (bool, error) {
	out, err := g.call(ctx, "verifyCertification", id)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// Issue submits a new certification record.
func (g *CertificationsGateway) Issue(ctx context.Context, args certification.IssueArgs) (*types.Transaction, error) {
	return g.transact(ctx, "issueCertification",
		args.Name,
		args.Description,
		args.Recipient,
		unixArg(args.ExpiresAt),
		args.DocumentCID,
		uint8(args.Kind),
	)
}

// Revoke marks a certification as revoked. The ledger enforces that only
// the issuer or the central authority may do this.
func (g *CertificationsGateway) Revoke(ctx context.Context, id *big.Int) (*types.Transaction, error) {
	return g.transact(ctx, "revokeCertification", id)
}

// WaitConfirmed blocks until the transaction is mined.
func (g *CertificationsGateway) WaitConfirmed(ctx context.Context, tx *types.Transaction) error {
	return g.waitConfirmed(ctx, tx)
}
