package orchestrate

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appsync "github.com/obralink/client/internal/application/sync"
	"github.com/obralink/client/internal/domain/shared"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Upload(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

func pendingTx() *types.Transaction {
	return types.NewTx(&types.LegacyTx{Nonce: 1, Gas: 21000, GasPrice: big.NewInt(1)})
}

// recorder captures the state sequence of a run.
type recorder struct {
	states []State
}

func (r *recorder) listen(_ string, s State) {
	r.states = append(r.states, s)
}

func newTestOrchestrator(store Store, rec *recorder) (*Orchestrator, *appsync.Trigger) {
	trigger := appsync.NewTrigger()
	opts := []Option{}
	if rec != nil {
		opts = append(opts, WithStateListener(rec.listen))
	}
	return NewOrchestrator(store, trigger, nil, opts...), trigger
}

func TestRunSuccess(t *testing.T) {
	store := &mockStore{}
	store.On("Upload", mock.Anything, []byte("doc")).Return("QmCid", nil)

	rec := &recorder{}
	orch, trigger := newTestOrchestrator(store, rec)

	var submittedCID string
	tx := pendingTx()
	action := &Action{
		Name:       "test.action",
		Attachment: []byte("doc"),
		Submit: func(_ context.Context, cid string) (*types.Transaction, error) {
			submittedCID = cid
			return tx, nil
		},
		Confirm: func(_ context.Context, got *types.Transaction) error {
			assert.Same(t, tx, got)
			return nil
		},
	}

	require.NoError(t, orch.Run(context.Background(), action))

	assert.Equal(t, "QmCid", submittedCID)
	assert.Equal(t, uint64(1), trigger.Count())
	assert.Equal(t,
		[]State{StateValidating, StateUploading, StateSubmitting, StateConfirming, StateSucceeded},
		rec.states,
	)

	state, lastErr := orch.Status()
	assert.Equal(t, StateSucceeded, state)
	assert.NoError(t, lastErr)
	store.AssertExpectations(t)
}

func TestRunSkipsUploadWithoutAttachment(t *testing.T) {
	store := &mockStore{}
	rec := &recorder{}
	orch, _ := newTestOrchestrator(store, rec)

	action := &Action{
		Name: "test.no-attachment",
		Submit: func(_ context.Context, cid string) (*types.Transaction, error) {
			assert.Empty(t, cid)
			return pendingTx(), nil
		},
		Confirm: func(context.Context, *types.Transaction) error { return nil },
	}

	require.NoError(t, orch.Run(context.Background(), action))
	assert.NotContains(t, rec.states, StateUploading)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestRunValidationFailure(t *testing.T) {
	store := &mockStore{}
	orch, trigger := newTestOrchestrator(store, nil)

	type input struct {
		Name string `validate:"required"`
	}
	submitted := false
	action := &Action{
		Name:       "test.invalid",
		Input:      input{},
		Attachment: []byte("doc"),
		Submit: func(context.Context, string) (*types.Transaction, error) {
			submitted = true
			return nil, nil
		},
	}

	err := orch.Run(context.Background(), action)

	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	// Nothing left the client: no upload, no submission, no refresh.
	assert.False(t, submitted)
	assert.Zero(t, trigger.Count())
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestRunPrepareFailure(t *testing.T) {
	store := &mockStore{}
	orch, _ := newTestOrchestrator(store, nil)

	action := &Action{
		Name:    "test.prepare",
		Prepare: func() error { return shared.NewValidationError("amount", "must be greater than zero") },
		Submit: func(context.Context, string) (*types.Transaction, error) {
			t.Fatal("submit must not run after a failed prepare")
			return nil, nil
		},
	}

	err := orch.Run(context.Background(), action)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
}

func TestRunUploadFailureAbortsBeforeSubmit(t *testing.T) {
	store := &mockStore{}
	store.On("Upload", mock.Anything, mock.Anything).Return("", shared.ErrStoreUnavailable)

	orch, trigger := newTestOrchestrator(store, nil)
	action := &Action{
		Name:       "test.upload-fail",
		Attachment: []byte("doc"),
		Submit: func(context.Context, string) (*types.Transaction, error) {
			t.Fatal("submit must not run when the upload failed")
			return nil, nil
		},
	}

	err := orch.Run(context.Background(), action)
	assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
	assert.Zero(t, trigger.Count())
}

func TestRunSubmitFailure(t *testing.T) {
	orch, trigger := newTestOrchestrator(&mockStore{}, nil)

	rejected := shared.NewLedgerRejectedError("deadline passed")
	action := &Action{
		Name: "test.submit-fail",
		Submit: func(context.Context, string) (*types.Transaction, error) {
			return nil, rejected
		},
	}

	err := orch.Run(context.Background(), action)

	var rej *shared.LedgerRejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "deadline passed", rej.Reason)
	assert.Zero(t, trigger.Count())

	state, lastErr := orch.Status()
	assert.Equal(t, StateFailed, state)
	assert.Error(t, lastErr)
}

func TestRunConfirmFailure(t *testing.T) {
	orch, trigger := newTestOrchestrator(&mockStore{}, nil)

	action := &Action{
		Name: "test.confirm-fail",
		Submit: func(context.Context, string) (*types.Transaction, error) {
			return pendingTx(), nil
		},
		Confirm: func(context.Context, *types.Transaction) error {
			return shared.NewLedgerRejectedError("transaction reverted")
		},
	}

	err := orch.Run(context.Background(), action)
	var rej *shared.LedgerRejectedError
	require.ErrorAs(t, err, &rej)
	assert.Zero(t, trigger.Count())
}

func TestRunBusyGuard(t *testing.T) {
	orch, _ := newTestOrchestrator(&mockStore{}, nil)

	release := make(chan struct{})
	started := make(chan struct{})
	first := &Action{
		Name: "test.slow",
		Submit: func(context.Context, string) (*types.Transaction, error) {
			close(started)
			<-release
			return pendingTx(), nil
		},
		Confirm: func(context.Context, *types.Transaction) error { return nil },
	}

	assert.False(t, orch.Busy())

	done := make(chan error, 1)
	go func() { done <- orch.Run(context.Background(), first) }()
	<-started

	assert.True(t, orch.Busy())
	err := orch.Run(context.Background(), &Action{Name: "test.second"})
	assert.ErrorIs(t, err, shared.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, orch.Busy())

	// The slot frees up after completion.
	third := &Action{
		Name:    "test.third",
		Submit:  func(context.Context, string) (*types.Transaction, error) { return pendingTx(), nil },
		Confirm: func(context.Context, *types.Transaction) error { return nil },
	}
	assert.NoError(t, orch.Run(context.Background(), third))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "validating", StateValidating.String())
	assert.Equal(t, "uploading", StateUploading.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "confirming", StateConfirming.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestFutureValidation(t *testing.T) {
	orch, _ := newTestOrchestrator(&mockStore{}, nil)

	type input struct {
		Deadline time.Time `validate:"required,future"`
	}

	t.Run("past deadline fails", func(t *testing.T) {
		err := orch.Run(context.Background(), &Action{
			Name:  "test.past",
			Input: input{Deadline: time.Now().Add(-time.Hour)},
		})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "deadline", verr.Field)
	})

	t.Run("future deadline passes", func(t *testing.T) {
		err := orch.Run(context.Background(), &Action{
			Name:    "test.future",
			Input:   input{Deadline: time.Now().Add(time.Hour)},
			Submit:  func(context.Context, string) (*types.Transaction, error) { return pendingTx(), nil },
			Confirm: func(context.Context, *types.Transaction) error { return nil },
		})
		assert.NoError(t, err)
	})
}
