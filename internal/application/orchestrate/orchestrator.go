// Package orchestrate sequences write actions against the ledger: input
// validation, attachment upload, transaction submission, and confirmation.
// One action runs at a time; overlapping submissions are refused rather
// than queued.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/obralink/client/internal/application/sync"
	"github.com/obralink/client/internal/domain/shared"
)

// Store uploads attachment bytes and returns their content id.
type Store interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// Action is one write against the ledger. Prepare runs after struct
// validation and may reject or normalize the input; Submit receives the
// attachment's content id, empty when the action carries no attachment.
type Action struct {
	Name       string
	Input      any
	Attachment []byte
	Prepare    func() error
	Submit     func(ctx context.Context, cid string) (*types.Transaction, error)
	Confirm    func(ctx context.Context, tx *types.Transaction) error
}

// Orchestrator runs actions through the validate/upload/submit/confirm
// sequence and bumps the refresh trigger after each confirmed write.
type Orchestrator struct {
	validate *validator.Validate
	store    Store
	trigger  *appsync.Trigger
	logger   *zap.Logger
	listener func(runID string, state State)

	busy atomic.Bool

	mu      sync.Mutex
	state   State
	lastErr error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStateListener registers a callback invoked on every state change.
// Called from the running goroutine; keep it fast.
func WithStateListener(fn func(runID string, state State)) Option {
	return func(o *Orchestrator) {
		o.listener = fn
	}
}

// NewOrchestrator wires the attachment store and refresh trigger.
func NewOrchestrator(store Store, trigger *appsync.Trigger, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		validate: newValidator(),
		store:    store,
		trigger:  trigger,
		logger:   logger,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the action to completion. It returns shared.ErrBusy without
// side effects when another action is in flight. Validation and upload
// failures abort before anything reaches the ledger; submit and confirm
// failures leave the entered input untouched so the caller can retry.
func (o *Orchestrator) Run(ctx context.Context, action *Action) error {
	if !o.busy.CompareAndSwap(false, true) {
		return shared.ErrBusy
	}
	defer o.busy.Store(false)

	runID := uuid.NewString()
	log := o.logger.With(zap.String("run_id", runID), zap.String("action", action.Name))

	o.setState(runID, StateValidating, nil)
	if err := o.validateInput(action); err != nil {
		o.setState(runID, StateFailed, err)
		log.Warn("Action rejected by validation", zap.Error(err))
		return err
	}

	cid := ""
	if len(action.Attachment) > 0 {
		o.setState(runID, StateUploading, nil)
		var err error
		cid, err = o.store.Upload(ctx, action.Attachment)
		if err != nil {
			o.setState(runID, StateFailed, err)
			log.Warn("Attachment upload failed", zap.Error(err))
			return err
		}
		log.Info("Attachment stored", zap.String("cid", cid))
	}

	o.setState(runID, StateSubmitting, nil)
	tx, err := action.Submit(ctx, cid)
	if err != nil {
		o.setState(runID, StateFailed, err)
		log.Warn("Submission failed", zap.Error(err))
		return err
	}

	o.setState(runID, StateConfirming, nil)
	if err := action.Confirm(ctx, tx); err != nil {
		o.setState(runID, StateFailed, err)
		log.Warn("Confirmation failed", zap.Error(err))
		return err
	}

	o.setState(runID, StateSucceeded, nil)
	o.trigger.Bump()
	log.Info("Action confirmed", zap.String("tx", tx.Hash().Hex()))
	return nil
}

// Busy reports whether an action is currently in flight. Callers use it
// to disable the triggering control for the action's duration.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Status reports the most recent run's state and error.
func (o *Orchestrator) Status() (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state, o.lastErr
}

func (o *Orchestrator) setState(runID string, s State, err error) {
	o.mu.Lock()
	o.state = s
	o.lastErr = err
	o.mu.Unlock()
	if o.listener != nil {
		o.listener(runID, s)
	}
}

func (o *Orchestrator) validateInput(action *Action) error {
	if action.Input != nil {
		if err := o.validate.Struct(action.Input); err != nil {
			return asValidationError(err)
		}
	}
	if action.Prepare != nil {
		if err := action.Prepare(); err != nil {
			return err
		}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("future", validateFuture)
	return v
}

func validateFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	return ok && t.After(time.Now())
}

// asValidationError converts a validator failure to the domain's field
// error, reporting the first failed field.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", shared.ErrInvalidRequest, err)
	}
	fe := verrs[0]
	return shared.NewValidationError(
		strings.ToLower(fe.Field()),
		fmt.Sprintf("failed %q constraint", fe.Tag()),
	)
}
