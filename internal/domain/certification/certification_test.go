package certification

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestStatusAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cert Certification
		want Status
	}{
		{
			name: "active before expiry",
			cert: Certification{ExpiresAt: now.Add(24 * time.Hour)},
			want: StatusActive,
		},
		{
			name: "expired after expiry",
			cert: Certification{ExpiresAt: now.Add(-time.Minute)},
			want: StatusExpired,
		},
		{
			name: "never expires",
			cert: Certification{},
			want: StatusActive,
		},
		{
			name: "revoked",
			cert: Certification{Revoked: true, ExpiresAt: now.Add(24 * time.Hour)},
			want: StatusRevoked,
		},
		{
			name: "revocation wins over expiry",
			cert: Certification{Revoked: true, ExpiresAt: now.Add(-24 * time.Hour)},
			want: StatusRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cert.StatusAt(now))
		})
	}
}

func TestCanRevoke(t *testing.T) {
	issuer := common.HexToAddress("0x1111111111111111111111111111111111111111")
	authority := common.HexToAddress("0x2222222222222222222222222222222222222222")
	stranger := common.HexToAddress("0x3333333333333333333333333333333333333333")

	cert := Certification{Issuer: issuer}

	assert.True(t, cert.CanRevoke(issuer, authority))
	assert.True(t, cert.CanRevoke(authority, authority))
	assert.False(t, cert.CanRevoke(stranger, authority))

	t.Run("already revoked", func(t *testing.T) {
		revoked := Certification{Issuer: issuer, Revoked: true}
		assert.False(t, revoked.CanRevoke(issuer, authority))
	})

	t.Run("unknown authority never matches the zero address", func(t *testing.T) {
		assert.False(t, cert.CanRevoke(common.Address{}, common.Address{}))
	})
}

func TestKind(t *testing.T) {
	assert.Equal(t, "WorksLicense", KindWorksLicense.String())
	assert.Equal(t, "Other", KindOther.String())
	assert.Equal(t, "Unknown", Kind(99).String())
	assert.True(t, KindEnergyCertificate.IsValid())
	assert.False(t, Kind(7).IsValid())
}
