// Package ledger implements the typed gateways over the record-domain
// contracts. Mutating calls go through a bound signer; queries and event
// scans only need the node connection.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/obralink/client/internal/domain/shared"
)

// Backend is the node connection surface the gateways need. An
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Option configures a gateway.
type Option func(*binding)

// WithSigner binds a writer identity. Without it the gateway is read-only
// and all mutating calls fail with INVALID_REQUEST.
func WithSigner(signer *bind.TransactOpts) Option {
	return func(b *binding) {
		b.signer = signer
	}
}

// WithLogger sets a custom logger for the gateway
func WithLogger(logger *zap.Logger) Option {
	return func(b *binding) {
		b.logger = logger
	}
}

// binding is the shared machinery under the per-domain gateways: one
// deployed contract, its parsed ABI, and an optional signer.
type binding struct {
	name     string
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	backend  Backend
	signer   *bind.TransactOpts
	logger   *zap.Logger
}

func newBinding(name, addrHex, abiJSON string, backend Backend, opts ...Option) (*binding, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: no node connection", shared.ErrGatewayUnavailable)
	}
	if !common.IsHexAddress(addrHex) {
		return nil, fmt.Errorf("%w: %s contract address is not configured", shared.ErrGatewayUnavailable, name)
	}

	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing %s ABI: %w", name, err)
	}

	address := common.HexToAddress(addrHex)
	b := &binding{
		name:     name,
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// call performs a read-only contract call. No signer is required.
func (b *binding) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...)
	if err != nil {
		return nil, b.classify(err)
	}
	return out, nil
}

// transact submits a state-changing transaction and returns it pending.
// Callers must follow up with waitConfirmed; success is never reported
// optimistically.
func (b *binding) transact(ctx context.Context, method string, args ...interface{}) (*types.Transaction, error) {
	if b.signer == nil {
		return nil, fmt.Errorf("%w: %s gateway has no signer", shared.ErrInvalidRequest, b.name)
	}

	opts := *b.signer
	opts.Context = ctx

	tx, err := b.contract.Transact(&opts, method, args...)
	if err != nil {
		return nil, b.classify(err)
	}

	b.logger.Info("Transaction submitted",
		zap.String("contract", b.name),
		zap.String("method", method),
		zap.String("tx", tx.Hash().Hex()),
	)
	return tx, nil
}

// waitConfirmed blocks until the transaction is mined. A reverted receipt
// surfaces as LedgerRejected.
func (b *binding) waitConfirmed(ctx context.Context, tx *types.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: nil transaction", shared.ErrInvalidRequest)
	}

	receipt, err := bind.WaitMined(ctx, b.backend, tx)
	if err != nil {
		return b.classify(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		b.logger.Warn("Transaction reverted",
			zap.String("contract", b.name),
			zap.String("tx", tx.Hash().Hex()),
		)
		return shared.NewLedgerRejectedError("transaction reverted")
	}

	b.logger.Info("Transaction confirmed",
		zap.String("contract", b.name),
		zap.String("tx", tx.Hash().Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
	)
	return nil
}

// filterIDs scans one inclusive block range for an event and returns the
// record ids carried in its first indexed argument. Range partitioning is
// the caller's responsibility.
func (b *binding) filterIDs(ctx context.Context, eventName string, fromBlock, toBlock uint64) ([]*big.Int, error) {
	event, ok := b.abi.Events[eventName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown event %s", shared.ErrInvalidRequest, eventName)
	}

	logs, err := b.backend.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{b.address},
		Topics:    [][]common.Hash{{event.ID}},
	})
	if err != nil {
		return nil, b.classify(err)
	}

	ids := make([]*big.Int, 0, len(logs))
	for _, lg := range logs {
		if len(lg.Topics) < 2 {
			continue
		}
		ids = append(ids, new(big.Int).SetBytes(lg.Topics[1].Bytes()))
	}
	return ids, nil
}

// classify maps raw RPC failures onto the client error taxonomy: reverts
// become LedgerRejected, client-side argument problems become
// InvalidRequest, everything else GatewayUnavailable.
func (b *binding) classify(err error) error {
	if err == nil {
		return nil
	}
	if reason, ok := revertReason(err); ok {
		return shared.NewLedgerRejectedError(reason)
	}
	msg := err.Error()
	if strings.Contains(msg, "abi: ") || strings.Contains(msg, "method '") {
		return fmt.Errorf("%w: %v", shared.ErrInvalidRequest, err)
	}
	return fmt.Errorf("%w: %v", shared.ErrGatewayUnavailable, err)
}

// revertReason extracts a human-readable revert string when the error is a
// contract rejection.
func revertReason(err error) (string, bool) {
	var de rpc.DataError
	if errors.As(err, &de) {
		if data, ok := de.ErrorData().(string); ok {
			if reason, uerr := abi.UnpackRevert(common.FromHex(data)); uerr == nil {
				return reason, true
			}
		}
	}
	msg := err.Error()
	if i := strings.Index(msg, "execution reverted"); i >= 0 {
		reason := strings.TrimPrefix(msg[i+len("execution reverted"):], ":")
		return strings.TrimSpace(reason), true
	}
	return "", false
}

// unixTime converts an on-chain uint256 timestamp; zero means unset.
func unixTime(v *big.Int) time.Time {
	if v == nil || v.Sign() == 0 {
		return time.Time{}
	}
	return time.Unix(v.Int64(), 0).UTC()
}

// unixArg converts a timestamp for submission; the zero time maps to 0.
func unixArg(t time.Time) *big.Int {
	if t.IsZero() {
		return new(big.Int)
	}
	return big.NewInt(t.Unix())
}
