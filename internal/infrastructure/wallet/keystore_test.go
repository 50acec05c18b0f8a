package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obralink/client/internal/domain/shared"
)

func TestRequestAccountsEmptyKeystore(t *testing.T) {
	p := NewKeystoreProvider(t.TempDir(), "", nil, nil)
	defer p.Close()

	_, err := p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, shared.ErrUserRejected)
}

func TestHandlerRegistration(t *testing.T) {
	p := NewKeystoreProvider(t.TempDir(), "", nil, nil)
	defer p.Close()

	var got []common.Address
	unsubA := p.OnAccountsChanged(func(accounts []common.Address) { got = accounts })
	unsubB := p.OnChainChanged(func(*big.Int) {})

	assert.Len(t, p.accountSubs, 1)
	assert.Len(t, p.chainSubs, 1)

	p.notifyAccounts()
	assert.Empty(t, got)

	unsubA()
	unsubB()
	assert.Empty(t, p.accountSubs)
	assert.Empty(t, p.chainSubs)
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewKeystoreProvider(t.TempDir(), "", nil, nil)
	p.Close()
	p.Close()
}

func TestNotifyChainDeduplicates(t *testing.T) {
	p := NewKeystoreProvider(t.TempDir(), "", nil, nil)
	defer p.Close()

	var changes int
	p.OnChainChanged(func(*big.Int) { changes++ })

	// First observation seeds the baseline without firing.
	p.notifyChain(big.NewInt(1337))
	assert.Zero(t, changes)

	p.notifyChain(big.NewInt(1337))
	assert.Zero(t, changes)

	p.notifyChain(big.NewInt(1))
	assert.Equal(t, 1, changes)
}
