package orchestrate

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/obralink/client/internal/domain/certification"
	"github.com/obralink/client/internal/domain/project"
	"github.com/obralink/client/internal/domain/shared"
	"github.com/obralink/client/internal/domain/tender"
)

// CreateProjectAction registers a new project. No attachment.
func CreateProjectAction(w project.Writer, in CreateProjectInput) *Action {
	var budget *big.Int
	return &Action{
		Name:  "project.create",
		Input: in,
		Prepare: func() error {
			var err error
			budget, err = parseAmount("totalbudget", in.TotalBudget)
			return err
		},
		Submit: func(ctx context.Context, _ string) (*types.Transaction, error) {
			return w.Create(ctx, in.Name, in.Location, budget, in.StartDate, in.PlannedEndDate)
		},
		Confirm: w.WaitConfirmed,
	}
}

// AdvancePhaseAction pushes a project to its next lifecycle stage.
func AdvancePhaseAction(w project.Writer, in AdvancePhaseInput) *Action {
	var id *big.Int
	return &Action{
		Name:  "project.advance_phase",
		Input: in,
		Prepare: func() error {
			var err error
			id, err = parseID("projectid", in.ProjectID)
			return err
		},
		Submit: func(ctx context.Context, _ string) (*types.Transaction, error) {
			return w.AdvancePhase(ctx, id)
		},
		Confirm: w.WaitConfirmed,
	}
}

// IssueCertificationAction issues a certification; document carries the
// supporting file and is required.
func IssueCertificationAction(w certification.Writer, in IssueCertificationInput, document []byte) *Action {
	return &Action{
		Name:       "certification.issue",
		Input:      in,
		Attachment: document,
		Prepare: func() error {
			if len(document) == 0 {
				return shared.NewValidationError("document", "supporting document is required")
			}
			return nil
		},
		Submit: func(ctx context.Context, cid string) (*types.Transaction, error) {
			return w.Issue(ctx, certification.IssueArgs{
				Name:        in.Name,
				Description: in.Description,
				Recipient:   common.HexToAddress(in.Recipient),
				ExpiresAt:   in.ExpiresAt,
				DocumentCID: cid,
				Kind:        certification.Kind(in.Kind),
			})
		},
		Confirm: w.WaitConfirmed,
	}
}

// RevokeCertificationAction revokes an issued certification.
func RevokeCertificationAction(w certification.Writer, in RevokeCertificationInput) *Action {
	var id *big.Int
	return &Action{
		Name:  "certification.revoke",
		Input: in,
		Prepare: func() error {
			var err error
			id, err = parseID("certificationid", in.CertificationID)
			return err
		},
		Submit: func(ctx context.Context, _ string) (*types.Transaction, error) {
			return w.Revoke(ctx, id)
		},
		Confirm: w.WaitConfirmed,
	}
}

// CreateTenderAction opens a tender; document carries the terms of
// reference and is required.
func CreateTenderAction(w tender.Writer, in CreateTenderInput, document []byte) *Action {
	var budget *big.Int
	return &Action{
		Name:       "tender.create",
		Input:      in,
		Attachment: document,
		Prepare: func() error {
			if len(document) == 0 {
				return shared.NewValidationError("document", "tender document is required")
			}
			var err error
			budget, err = parseAmount("maxbudget", in.MaxBudget)
			return err
		},
		Submit: func(ctx context.Context, cid string) (*types.Transaction, error) {
			return w.Create(ctx, tender.CreateArgs{
				Name:        in.Name,
				Description: in.Description,
				MaxBudget:   budget,
				Deadline:    in.Deadline,
				DocumentCID: cid,
			})
		},
		Confirm: w.WaitConfirmed,
	}
}

// SubmitBidAction places a bid; proposal carries the bidder's proposal
// file and is required.
func SubmitBidAction(w tender.Writer, in SubmitBidInput, proposal []byte) *Action {
	var (
		tenderID *big.Int
		amount   *big.Int
	)
	return &Action{
		Name:       "tender.submit_bid",
		Input:      in,
		Attachment: proposal,
		Prepare: func() error {
			if len(proposal) == 0 {
				return shared.NewValidationError("proposal", "bid proposal is required")
			}
			var err error
			if tenderID, err = parseID("tenderid", in.TenderID); err != nil {
				return err
			}
			amount, err = parseAmount("amount", in.Amount)
			return err
		},
		Submit: func(ctx context.Context, cid string) (*types.Transaction, error) {
			return w.SubmitBid(ctx, tender.BidArgs{
				TenderID:      tenderID,
				Amount:        amount,
				EstimatedDays: in.EstimatedDays,
				ProposalCID:   cid,
			})
		},
		Confirm: w.WaitConfirmed,
	}
}

// AwardTenderAction selects the winning bid.
func AwardTenderAction(w tender.Writer, in AwardTenderInput) *Action {
	var tenderID, bidID *big.Int
	return &Action{
		Name:  "tender.award",
		Input: in,
		Prepare: func() error {
			var err error
			if tenderID, err = parseID("tenderid", in.TenderID); err != nil {
				return err
			}
			bidID, err = parseID("bidid", in.BidID)
			return err
		},
		Submit: func(ctx context.Context, _ string) (*types.Transaction, error) {
			return w.Award(ctx, tenderID, bidID)
		},
		Confirm: w.WaitConfirmed,
	}
}

// CloseTenderAction closes a tender without awarding it.
func CloseTenderAction(w tender.Writer, in CloseTenderInput) *Action {
	var tenderID *big.Int
	return &Action{
		Name:  "tender.close",
		Input: in,
		Prepare: func() error {
			var err error
			tenderID, err = parseID("tenderid", in.TenderID)
			return err
		},
		Submit: func(ctx context.Context, _ string) (*types.Transaction, error) {
			return w.Close(ctx, tenderID)
		},
		Confirm: w.WaitConfirmed,
	}
}

// parseAmount converts a display-unit amount string to base units,
// relabeling the field error to the input's own field name.
func parseAmount(field, amount string) (*big.Int, error) {
	v, err := shared.ParseNative(amount)
	if err != nil {
		var verr *shared.ValidationError
		if errors.As(err, &verr) {
			return nil, shared.NewValidationError(field, verr.Reason)
		}
		return nil, err
	}
	return v, nil
}

// parseID converts a decimal record id string; ids are always positive.
func parseID(field, raw string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(raw, 10)
	if !ok || id.Sign() <= 0 {
		return nil, shared.NewValidationError(field, "must be a positive integer id")
	}
	return id, nil
}
