// Package certification holds the works-certification record domain.
package certification

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Kind is the category of a certification as defined by the ledger contract.
type Kind uint8

const (
	KindWorksLicense Kind = iota
	KindEnvironmentalPermit
	KindSafetyCertificate
	KindQualityInspection
	KindWorksCompletion
	KindEnergyCertificate
	KindOther
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindWorksLicense:
		return "WorksLicense"
	case KindEnvironmentalPermit:
		return "EnvironmentalPermit"
	case KindSafetyCertificate:
		return "SafetyCertificate"
	case KindQualityInspection:
		return "QualityInspection"
	case KindWorksCompletion:
		return "WorksCompletion"
	case KindEnergyCertificate:
		return "EnergyCertificate"
	case KindOther:
		return "Other"
	}
	return "Unknown"
}

// IsValid returns true if the kind is one of the ledger-defined categories
func (k Kind) IsValid() bool {
	return k <= KindOther
}

// Status is the locally derived validity of a certification.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusExpired Status = "EXPIRED"
	StatusRevoked Status = "REVOKED"
)

// Certification is a ledger-held certification record. ExpiresAt is the
// zero time when the certification never expires.
type Certification struct {
	ID          *big.Int
	Name        string
	Description string
	Issuer      common.Address
	Recipient   common.Address
	IssuedAt    time.Time
	ExpiresAt   time.Time
	DocumentCID string
	Kind        Kind
	Revoked     bool
}

// StatusAt derives the display status from the revoked flag and expiry.
// Revocation wins over expiry.
func (c *Certification) StatusAt(now time.Time) Status {
	if c.Revoked {
		return StatusRevoked
	}
	if !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now) {
		return StatusExpired
	}
	return StatusActive
}

// CanRevoke returns true if the actor is the issuer or the central
// authority. The ledger enforces the same rule; this only gates the UI
// affordance.
func (c *Certification) CanRevoke(actor, authority common.Address) bool {
	if c.Revoked {
		return false
	}
	return actor == c.Issuer || (authority != (common.Address{}) && actor == authority)
}
