// Package wallet implements the session provider over a local encrypted
// keystore and an RPC node. It stands in for a browser wallet: accounts
// come from the keystore directory, network identity from the node.
package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/obralink/client/internal/application/session"
	"github.com/obralink/client/internal/domain/shared"
)

var _ session.Provider = (*KeystoreProvider)(nil)

// chainPollInterval is how often the provider re-reads the node's chain id
// to detect network switches.
const chainPollInterval = 15 * time.Second

// KeystoreProvider derives accounts from a scrypt keystore directory and
// network state from an RPC client.
type KeystoreProvider struct {
	ks         *keystore.KeyStore
	client     *ethclient.Client
	passphrase string
	logger     *zap.Logger

	mu            sync.Mutex
	nextHandlerID int
	accountSubs   map[int]func(accounts []common.Address)
	chainSubs     map[int]func(chainID *big.Int)
	lastChainID   *big.Int
	done          chan struct{}
	closeOnce     sync.Once
	wg            sync.WaitGroup
}

// NewKeystoreProvider opens the keystore at dir and starts watching for
// account and network changes. Close releases the watchers.
func NewKeystoreProvider(dir, passphrase string, client *ethclient.Client, logger *zap.Logger) *KeystoreProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &KeystoreProvider{
		ks:          keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP),
		client:      client,
		passphrase:  passphrase,
		logger:      logger,
		accountSubs: make(map[int]func([]common.Address)),
		chainSubs:   make(map[int]func(*big.Int)),
		done:        make(chan struct{}),
	}

	p.wg.Add(2)
	go p.watchAccounts()
	go p.watchChain()
	return p
}

// RequestAccounts lists the keystore accounts. An empty keystore is
// treated as the user declining access.
func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderUnavailable, err)
	}
	list := p.ks.Accounts()
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: keystore holds no accounts", shared.ErrUserRejected)
	}
	addrs := make([]common.Address, len(list))
	for i, a := range list {
		addrs[i] = a.Address
	}
	return addrs, nil
}

// ChainID queries the node for its network id.
func (p *KeystoreProvider) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := p.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderUnavailable, err)
	}
	return id, nil
}

// Transactor unlocks the account and returns a signer bound to the node's
// chain id.
func (p *KeystoreProvider) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	chainID, err := p.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	acct := accounts.Account{Address: account}
	if err := p.ks.Unlock(acct, p.passphrase); err != nil {
		return nil, fmt.Errorf("%w: unlock %s: %v", shared.ErrUserRejected, account.Hex(), err)
	}
	signer, err := bind.NewKeyStoreTransactorWithChainID(p.ks, acct, chainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderUnavailable, err)
	}
	return signer, nil
}

// OnAccountsChanged registers a handler invoked whenever the keystore's
// account set changes.
func (p *KeystoreProvider) OnAccountsChanged(handler func(accounts []common.Address)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextHandlerID
	p.nextHandlerID++
	p.accountSubs[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.accountSubs, id)
	}
}

// OnChainChanged registers a handler invoked whenever the node reports a
// different chain id.
func (p *KeystoreProvider) OnChainChanged(handler func(chainID *big.Int)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextHandlerID
	p.nextHandlerID++
	p.chainSubs[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.chainSubs, id)
	}
}

// Close stops the watch goroutines. Registered handlers receive no further
// callbacks after Close returns.
func (p *KeystoreProvider) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}

func (p *KeystoreProvider) watchAccounts() {
	defer p.wg.Done()

	events := make(chan accounts.WalletEvent, 16)
	sub := p.ks.Subscribe(events)
	defer sub.Unsubscribe()

	for {
		select {
		case <-p.done:
			return
		case err := <-sub.Err():
			if err != nil {
				p.logger.Warn("Keystore subscription ended", zap.Error(err))
			}
			return
		case ev := <-events:
			p.logger.Debug("Keystore wallet event", zap.Int("kind", int(ev.Kind)))
			p.notifyAccounts()
		}
	}
}

func (p *KeystoreProvider) notifyAccounts() {
	list := p.ks.Accounts()
	addrs := make([]common.Address, len(list))
	for i, a := range list {
		addrs[i] = a.Address
	}

	p.mu.Lock()
	handlers := make([]func([]common.Address), 0, len(p.accountSubs))
	for _, h := range p.accountSubs {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(addrs)
	}
}

// watchChain polls the node for its chain id. A local node never switches
// networks on its own, but the RPC endpoint in config can point at a
// different node between polls.
func (p *KeystoreProvider) watchChain() {
	defer p.wg.Done()

	ticker := time.NewTicker(chainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			id, err := p.client.ChainID(ctx)
			cancel()
			if err != nil {
				p.logger.Debug("Chain id poll failed", zap.Error(err))
				continue
			}
			p.notifyChain(id)
		}
	}
}

func (p *KeystoreProvider) notifyChain(id *big.Int) {
	p.mu.Lock()
	if p.lastChainID != nil && p.lastChainID.Cmp(id) == 0 {
		p.mu.Unlock()
		return
	}
	changed := p.lastChainID != nil
	p.lastChainID = id
	handlers := make([]func(*big.Int), 0, len(p.chainSubs))
	for _, h := range p.chainSubs {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	if !changed {
		return
	}
	p.logger.Info("Chain id changed", zap.String("chain_id", id.String()))
	for _, h := range handlers {
		h(new(big.Int).Set(id))
	}
}
