// Package session owns the wallet session lifecycle: connecting to the
// signing provider, tracking the active account and network, and reacting
// to provider-side changes.
package session

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/obralink/client/internal/domain/shared"
)

// Provider is the session boundary to the signing/identity provider.
type Provider interface {
	// RequestAccounts asks the provider for account access. An empty
	// result means access was not granted.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// ChainID returns the network the provider is currently on.
	ChainID(ctx context.Context) (*big.Int, error)

	// Transactor derives a signer bound to the given account.
	Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error)

	// OnAccountsChanged registers a handler for account-set changes and
	// returns its deregistration func.
	OnAccountsChanged(handler func(accounts []common.Address)) (unsubscribe func())

	// OnChainChanged registers a handler for network changes and returns
	// its deregistration func.
	OnChainChanged(handler func(chainID *big.Int)) (unsubscribe func())
}

// Session is the connection state snapshot. NetworkOK false with Connected
// true means the provider is on the wrong chain; it is a flag, not an
// error.
type Session struct {
	Account   common.Address
	ChainID   *big.Int
	Connected bool
	NetworkOK bool
	LastError string
}

// Manager owns the single Session instance for the application's lifetime.
// Dependents receive snapshots, never the live state.
type Manager struct {
	provider Provider
	expected *big.Int
	logger   *zap.Logger

	mu            sync.Mutex
	session       Session
	signer        *bind.TransactOpts
	unsubAccounts func()
	unsubChain    func()
}

// NewManager creates a session manager expecting the given chain id.
func NewManager(provider Provider, expectedChainID int64, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		provider: provider,
		expected: big.NewInt(expectedChainID),
		logger:   logger,
	}
}

// Connect requests account access and derives the signer, account, and
// network state. On failure the session stays disconnected and LastError
// carries a human-readable message. Change handlers are registered on the
// first successful connect only; repeated connect cycles never register
// duplicates.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectLocked(ctx)
}

func (m *Manager) connectLocked(ctx context.Context) error {
	m.session.LastError = ""

	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil {
		return m.failLocked(fmt.Errorf("%w: %v", shared.ErrProviderUnavailable, err))
	}
	if len(accounts) == 0 {
		return m.failLocked(shared.ErrUserRejected)
	}
	account := accounts[0]

	chainID, err := m.provider.ChainID(ctx)
	if err != nil {
		return m.failLocked(fmt.Errorf("%w: %v", shared.ErrProviderUnavailable, err))
	}

	signer, err := m.provider.Transactor(ctx, account)
	if err != nil {
		return m.failLocked(fmt.Errorf("%w: %v", shared.ErrProviderUnavailable, err))
	}

	m.session = Session{
		Account:   account,
		ChainID:   chainID,
		Connected: true,
		NetworkOK: chainID.Cmp(m.expected) == 0,
	}
	m.signer = signer

	if m.unsubAccounts == nil {
		m.unsubAccounts = m.provider.OnAccountsChanged(m.handleAccountsChanged)
	}
	if m.unsubChain == nil {
		m.unsubChain = m.provider.OnChainChanged(m.handleChainChanged)
	}

	m.logger.Info("Wallet connected",
		zap.String("account", account.Hex()),
		zap.String("chain_id", chainID.String()),
		zap.Bool("network_ok", m.session.NetworkOK),
	)
	return nil
}

func (m *Manager) failLocked(err error) error {
	m.session = Session{LastError: err.Error()}
	m.signer = nil
	m.logger.Warn("Wallet connect failed", zap.Error(err))
	return err
}

// Disconnect clears the session to its empty state. Idempotent. Change
// handlers stay registered so a later provider-side account arrival can
// still be observed; Close removes them.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	m.logger.Info("Wallet disconnected")
}

func (m *Manager) clearLocked() {
	m.session = Session{}
	m.signer = nil
}

// Close tears the manager down: clears the session and deregisters both
// change handlers. Safe to call more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubAccounts != nil {
		m.unsubAccounts()
		m.unsubAccounts = nil
	}
	if m.unsubChain != nil {
		m.unsubChain()
		m.unsubChain = nil
	}
	m.clearLocked()
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Signer returns the active signer, or nil when disconnected. Gateways
// constructed without it must degrade to read-only.
func (m *Manager) Signer() *bind.TransactOpts {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signer
}

// handleAccountsChanged reacts to provider account-set changes: an empty
// set disconnects; a different account triggers a full reconnect so the
// signer is re-derived, never left bound to the old account.
func (m *Manager) handleAccountsChanged(accounts []common.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(accounts) == 0 {
		m.clearLocked()
		m.logger.Info("Accounts changed to empty set, session cleared")
		return
	}
	if accounts[0] == m.session.Account && m.session.Connected {
		return
	}

	m.logger.Info("Active account changed, reconnecting",
		zap.String("account", accounts[0].Hex()))
	if err := m.connectLocked(context.Background()); err != nil {
		m.logger.Warn("Reconnect after account change failed", zap.Error(err))
	}
}

// handleChainChanged recomputes NetworkOK only; signer and account are
// left untouched.
func (m *Manager) handleChainChanged(chainID *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if chainID == nil {
		return
	}
	m.session.ChainID = chainID
	m.session.NetworkOK = chainID.Cmp(m.expected) == 0
	m.logger.Info("Network changed",
		zap.String("chain_id", chainID.String()),
		zap.Bool("network_ok", m.session.NetworkOK),
	)
}
