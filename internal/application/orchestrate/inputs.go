package orchestrate

import "time"

// Write-action inputs. Amounts are the user's display-unit strings and are
// parsed into base units during Prepare, never submitted as typed here.

// CreateProjectInput registers a new construction project.
type CreateProjectInput struct {
	Name           string    `validate:"required,max=128"`
	Location       string    `validate:"required,max=256"`
	TotalBudget    string    `validate:"required"`
	StartDate      time.Time `validate:"required"`
	PlannedEndDate time.Time `validate:"required,gtfield=StartDate"`
}

// AdvancePhaseInput pushes a project to its next lifecycle stage.
type AdvancePhaseInput struct {
	ProjectID string `validate:"required,number"`
}

// IssueCertificationInput issues a works certification to a recipient. An
// empty ExpiresAt means the certification never expires.
type IssueCertificationInput struct {
	Name        string    `validate:"required,max=128"`
	Description string    `validate:"max=1024"`
	Recipient   string    `validate:"required,eth_addr"`
	ExpiresAt   time.Time `validate:"omitempty,future"`
	Kind        uint8     `validate:"lte=6"`
}

// RevokeCertificationInput revokes an issued certification.
type RevokeCertificationInput struct {
	CertificationID string `validate:"required,number"`
}

// CreateTenderInput opens a tender for bids.
type CreateTenderInput struct {
	Name        string    `validate:"required,max=128"`
	Description string    `validate:"max=1024"`
	MaxBudget   string    `validate:"required"`
	Deadline    time.Time `validate:"required,future"`
}

// SubmitBidInput places a bid on an open tender.
type SubmitBidInput struct {
	TenderID      string `validate:"required,number"`
	Amount        string `validate:"required"`
	EstimatedDays uint64 `validate:"required,gt=0"`
}

// AwardTenderInput selects the winning bid for a tender.
type AwardTenderInput struct {
	TenderID string `validate:"required,number"`
	BidID    string `validate:"required,number"`
}

// CloseTenderInput closes a tender without awarding it.
type CloseTenderInput struct {
	TenderID string `validate:"required,number"`
}
