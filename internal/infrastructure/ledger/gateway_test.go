package ledger

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obralink/client/internal/domain/shared"
)

const testAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

// fakeBackend satisfies Backend; only the methods a test overrides are
// callable, everything else panics through the embedded nil interface.
type fakeBackend struct {
	Backend
	filterLogs func(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

func (f *fakeBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return f.filterLogs(ctx, q)
}

func TestABIConstantsParse(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		methods []string
		events  []string
	}{
		{
			name:    "projects",
			json:    projectsABI,
			methods: []string{"createProject", "advancePhase", "getProject", "projectIdsByOwner"},
			events:  []string{"ProjectCreated"},
		},
		{
			name: "certifications",
			json: certificationsABI,
			methods: []string{
				"issueCertification", "revokeCertification", "verifyCertification",
				"getCertification", "certificationIdsByRecipient",
				"certificationIdsByIssuer", "centralAuthority",
			},
			events: []string{"CertificationIssued"},
		},
		{
			name: "tenders",
			json: tendersABI,
			methods: []string{
				"createTender", "submitBid", "awardTender", "closeTender",
				"getTender", "getBid", "tenderIdsByCreator",
				"bidIdsByBidder", "bidIdsForTender",
			},
			events: []string{"TenderCreated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := abi.JSON(strings.NewReader(tt.json))
			require.NoError(t, err)
			for _, m := range tt.methods {
				_, ok := parsed.Methods[m]
				assert.True(t, ok, "missing method %s", m)
			}
			for _, e := range tt.events {
				_, ok := parsed.Events[e]
				assert.True(t, ok, "missing event %s", e)
			}
		})
	}
}

func TestNewBinding(t *testing.T) {
	t.Run("requires a backend", func(t *testing.T) {
		_, err := newBinding("projects", testAddr, projectsABI, nil)
		assert.ErrorIs(t, err, shared.ErrGatewayUnavailable)
	})

	t.Run("requires a configured address", func(t *testing.T) {
		_, err := newBinding("projects", "", projectsABI, &fakeBackend{})
		require.ErrorIs(t, err, shared.ErrGatewayUnavailable)
		assert.Contains(t, err.Error(), "not configured")
	})

	t.Run("binds with a valid address", func(t *testing.T) {
		b, err := newBinding("projects", testAddr, projectsABI, &fakeBackend{})
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(testAddr), b.address)
	})
}

func TestTransactWithoutSigner(t *testing.T) {
	gw, err := NewProjectsGateway(testAddr, &fakeBackend{})
	require.NoError(t, err)

	_, err = gw.Create(context.Background(), "Bridge", "Valencia", big.NewInt(1), time.Now(), time.Now().Add(time.Hour))
	require.ErrorIs(t, err, shared.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "no signer")
}

func TestFilterIDs(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(tendersABI))
	require.NoError(t, err)
	eventID := parsed.Events["TenderCreated"].ID

	idTopic := func(id int64) common.Hash {
		return common.BigToHash(big.NewInt(id))
	}

	t.Run("collects ids from the first indexed topic", func(t *testing.T) {
		backend := &fakeBackend{
			filterLogs: func(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
				assert.Equal(t, uint64(100), q.FromBlock.Uint64())
				assert.Equal(t, uint64(199), q.ToBlock.Uint64())
				require.Len(t, q.Topics, 1)
				assert.Equal(t, eventID, q.Topics[0][0])
				return []types.Log{
					{Topics: []common.Hash{eventID, idTopic(7)}},
					{Topics: []common.Hash{eventID, idTopic(9)}},
					{Topics: []common.Hash{eventID}}, // malformed, skipped
				}, nil
			},
		}
		gw, err := NewTendersGateway(testAddr, backend)
		require.NoError(t, err)

		ids, err := gw.CreatedInRange(context.Background(), 100, 199)
		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.Equal(t, int64(7), ids[0].Int64())
		assert.Equal(t, int64(9), ids[1].Int64())
	})

	t.Run("backend failure classifies as gateway unavailable", func(t *testing.T) {
		backend := &fakeBackend{
			filterLogs: func(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
				return nil, errors.New("connection reset")
			},
		}
		gw, err := NewTendersGateway(testAddr, backend)
		require.NoError(t, err)

		_, err = gw.CreatedInRange(context.Background(), 0, 10)
		assert.ErrorIs(t, err, shared.ErrGatewayUnavailable)
	})

	t.Run("unknown event is rejected client-side", func(t *testing.T) {
		b, err := newBinding("tenders", testAddr, tendersABI, &fakeBackend{})
		require.NoError(t, err)

		_, err = b.filterIDs(context.Background(), "NoSuchEvent", 0, 10)
		assert.ErrorIs(t, err, shared.ErrInvalidRequest)
	})
}

type fakeDataError struct {
	msg  string
	data interface{}
}

func (e fakeDataError) Error() string          { return e.msg }
func (e fakeDataError) ErrorData() interface{} { return e.data }

// revertData encodes Error("out of funds") the way a node returns it.
const revertData = "0x08c379a0" +
	"0000000000000000000000000000000000000000000000000000000000000020" +
	"000000000000000000000000000000000000000000000000000000000000000c" +
	"6f7574206f662066756e64730000000000000000000000000000000000000000"

func TestClassify(t *testing.T) {
	b := &binding{name: "projects"}

	t.Run("revert with structured data becomes ledger rejection", func(t *testing.T) {
		err := b.classify(fakeDataError{msg: "execution reverted", data: revertData})
		var rej *shared.LedgerRejectedError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, "out of funds", rej.Reason)
	})

	t.Run("revert message fallback", func(t *testing.T) {
		err := b.classify(errors.New("execution reverted: tender already awarded"))
		var rej *shared.LedgerRejectedError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, "tender already awarded", rej.Reason)
	})

	t.Run("abi mismatch is a client-side problem", func(t *testing.T) {
		err := b.classify(errors.New("abi: cannot use string as type uint256"))
		assert.ErrorIs(t, err, shared.ErrInvalidRequest)
	})

	t.Run("anything else is the gateway's problem", func(t *testing.T) {
		err := b.classify(errors.New("dial tcp 127.0.0.1:8545: connection refused"))
		assert.ErrorIs(t, err, shared.ErrGatewayUnavailable)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, b.classify(nil))
	})
}

func TestUnixConversions(t *testing.T) {
	t.Run("zero on-chain value is the zero time", func(t *testing.T) {
		assert.True(t, unixTime(nil).IsZero())
		assert.True(t, unixTime(big.NewInt(0)).IsZero())
	})

	t.Run("round trip", func(t *testing.T) {
		when := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
		assert.Equal(t, when, unixTime(unixArg(when)))
	})

	t.Run("zero time submits as zero", func(t *testing.T) {
		assert.Zero(t, unixArg(time.Time{}).Sign())
	})
}
