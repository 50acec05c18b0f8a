// Package sync derives per-account views of the on-chain record
// collections. Each refresh re-reads the ledger; nothing is cached
// between refreshes, so a snapshot is only as stale as its read.
package sync

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	gosync "sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/obralink/client/internal/domain/certification"
	"github.com/obralink/client/internal/domain/project"
	"github.com/obralink/client/internal/domain/shared"
	"github.com/obralink/client/internal/domain/tender"
)

// ChainReader exposes the chain-head query the tender scan needs.
type ChainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// ProjectSnapshot is the per-account project view. Advisory carries a
// partial-fetch notice when some records could not be loaded; the loaded
// ones are still present.
type ProjectSnapshot struct {
	Owned    []*project.Project
	Advisory error
}

// CertificationSnapshot is the per-account certification view.
type CertificationSnapshot struct {
	Received  []*certification.Certification
	Issued    []*certification.Certification
	Authority common.Address
	Advisory  error
}

// TenderSnapshot is the per-account tender view. OpenElsewhere holds open,
// unawarded tenders created by other accounts. ScanFailure is set when the
// discovery scan failed; an empty OpenElsewhere with a nil ScanFailure
// genuinely means no open tenders.
type TenderSnapshot struct {
	Created       []*tender.Tender
	OpenElsewhere []*tender.Tender
	MyBids        []*tender.Bid
	Advisory      error
	ScanFailure   error
}

// Synchronizer reads the three record collections into account-scoped
// snapshots.
type Synchronizer struct {
	projects       project.Reader
	certifications certification.Reader
	tenders        tender.Reader
	chain          ChainReader
	genesisBlock   uint64
	chunkSize      uint64
	logger         *zap.Logger
}

// NewSynchronizer wires the readers. chunkSize bounds each event-scan
// request; genesisBlock is where tender discovery starts.
func NewSynchronizer(
	projects project.Reader,
	certifications certification.Reader,
	tenders tender.Reader,
	chain ChainReader,
	genesisBlock, chunkSize uint64,
	logger *zap.Logger,
) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		projects:       projects,
		certifications: certifications,
		tenders:        tenders,
		chain:          chain,
		genesisBlock:   genesisBlock,
		chunkSize:      chunkSize,
		logger:         logger,
	}
}

// Projects loads the projects owned by account.
func (s *Synchronizer) Projects(ctx context.Context, account common.Address) (*ProjectSnapshot, error) {
	ids, err := s.projects.IDsByOwner(ctx, account)
	if err != nil {
		return nil, err
	}
	owned, advisory := fetchAll(ctx, "projects", ids, s.projects.Get, s.logger)
	return &ProjectSnapshot{Owned: owned, Advisory: advisory}, nil
}

// Certifications loads the certifications received and issued by account,
// plus the central authority address for revocation checks. Each
// sub-collection is derived independently: a failed index query degrades
// that sub-collection into the advisory and never discards its siblings.
// The call fails only when nothing at all could be derived.
func (s *Synchronizer) Certifications(ctx context.Context, account common.Address) (*CertificationSnapshot, error) {
	snap := &CertificationSnapshot{}
	var advisories []error
	failures := 0

	if ids, err := s.certifications.IDsByRecipient(ctx, account); err != nil {
		failures++
		advisories = append(advisories, fmt.Errorf("certifications/received index: %w", err))
	} else {
		received, adv := fetchAll(ctx, "certifications/received", ids, s.certifications.Get, s.logger)
		snap.Received = received
		if adv != nil {
			advisories = append(advisories, adv)
		}
	}

	if ids, err := s.certifications.IDsByIssuer(ctx, account); err != nil {
		failures++
		advisories = append(advisories, fmt.Errorf("certifications/issued index: %w", err))
	} else {
		issued, adv := fetchAll(ctx, "certifications/issued", ids, s.certifications.Get, s.logger)
		snap.Issued = issued
		if adv != nil {
			advisories = append(advisories, adv)
		}
	}

	if authority, err := s.certifications.CentralAuthority(ctx); err != nil {
		failures++
		advisories = append(advisories, fmt.Errorf("central authority: %w", err))
	} else {
		snap.Authority = authority
	}

	if failures == 3 {
		return nil, errors.Join(advisories...)
	}
	snap.Advisory = errors.Join(advisories...)
	return snap, nil
}

// Tenders loads the tenders created by account, the account's bids, and
// discovers open tenders from other accounts by scanning creation events
// from the genesis block to the chain head. Each sub-collection degrades
// independently: a failed index query folds into the advisory, a scan
// failure sets ScanFailure (OpenElsewhere empty), and siblings are kept
// either way. The call fails only when nothing at all could be derived.
func (s *Synchronizer) Tenders(ctx context.Context, account common.Address) (*TenderSnapshot, error) {
	snap := &TenderSnapshot{}
	var advisories []error
	failures := 0

	if ids, err := s.tenders.TenderIDsByCreator(ctx, account); err != nil {
		failures++
		advisories = append(advisories, fmt.Errorf("tenders/created index: %w", err))
	} else {
		created, adv := fetchAll(ctx, "tenders/created", ids, s.tenders.GetTender, s.logger)
		snap.Created = created
		if adv != nil {
			advisories = append(advisories, adv)
		}
	}

	if ids, err := s.tenders.BidIDsByBidder(ctx, account); err != nil {
		failures++
		advisories = append(advisories, fmt.Errorf("tenders/bids index: %w", err))
	} else {
		bids, adv := fetchAll(ctx, "tenders/bids", ids, s.tenders.GetBid, s.logger)
		snap.MyBids = bids
		if adv != nil {
			advisories = append(advisories, adv)
		}
	}

	allIDs, err := s.discoverTenderIDs(ctx)
	if err != nil {
		s.logger.Warn("Tender discovery scan failed", zap.Error(err))
		snap.ScanFailure = err
	} else {
		open, adv := fetchAll(ctx, "tenders/open", allIDs, s.tenders.GetTender, s.logger)
		for _, t := range open {
			if t.OpenFor(account) {
				snap.OpenElsewhere = append(snap.OpenElsewhere, t)
			}
		}
		if adv != nil {
			advisories = append(advisories, adv)
		}
	}

	if failures == 2 && snap.ScanFailure != nil {
		return nil, errors.Join(append(advisories, snap.ScanFailure)...)
	}
	snap.Advisory = errors.Join(advisories...)
	return snap, nil
}

// BidsForTender loads all bids received by one tender. Used on demand when
// the creator reviews a tender, not as part of a snapshot.
func (s *Synchronizer) BidsForTender(ctx context.Context, tenderID *big.Int) ([]*tender.Bid, error) {
	ids, err := s.tenders.BidIDsForTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	bids, advisory := fetchAll(ctx, "tenders/bids-for", ids, s.tenders.GetBid, s.logger)
	if advisory != nil {
		return bids, advisory
	}
	return bids, nil
}

// discoverTenderIDs scans creation events chunk by chunk from genesis to
// the current head.
func (s *Synchronizer) discoverTenderIDs(ctx context.Context) ([]*big.Int, error) {
	head, err := s.chain.BlockNumber(ctx)
	if err != nil {
		return nil, shared.NewRangeScanError(s.genesisBlock, 0, err)
	}
	ranges := partition(s.genesisBlock, head, s.chunkSize)
	ids, err := scanIDs(ctx, ranges, s.tenders.CreatedInRange)
	if err != nil {
		return nil, err
	}
	return dedupIDs(ids), nil
}

// fetchAll loads every id concurrently, preserving index order. Ids whose
// fetch fails are dropped from the result; if any failed, the advisory
// names them. A not-found record is treated the same as a failed fetch.
func fetchAll[T any](
	ctx context.Context,
	collection string,
	ids []*big.Int,
	get func(ctx context.Context, id *big.Int) (*T, error),
	logger *zap.Logger,
) ([]*T, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	slots := make([]*T, len(ids))
	failed := make([]string, len(ids))

	var wg gosync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := get(ctx, id)
			if err != nil {
				failed[i] = id.String()
				logger.Debug("Record fetch failed",
					zap.String("collection", collection),
					zap.String("id", id.String()),
					zap.Error(err),
				)
				return
			}
			slots[i] = rec
		}()
	}
	wg.Wait()

	out := make([]*T, 0, len(ids))
	var failedIDs []string
	for i, rec := range slots {
		if rec != nil {
			out = append(out, rec)
			continue
		}
		failedIDs = append(failedIDs, failed[i])
	}
	if len(failedIDs) > 0 {
		return out, shared.NewPartialFetchError(collection, failedIDs)
	}
	return out, nil
}
