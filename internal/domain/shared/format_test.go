package shared

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNative(t *testing.T) {
	tests := []struct {
		name string
		wei  *big.Int
		want string
	}{
		{"nil", nil, "0"},
		{"zero", big.NewInt(0), "0"},
		{"one ether", mustBig(t, "1000000000000000000"), "1"},
		{"fractional", mustBig(t, "1500000000000000000"), "1.5"},
		{"one wei", big.NewInt(1), "0.000000000000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNative(tt.wei))
		})
	}
}

func TestParseNative(t *testing.T) {
	t.Run("whole amount", func(t *testing.T) {
		got, err := ParseNative("2")
		require.NoError(t, err)
		assert.Equal(t, mustBig(t, "2000000000000000000"), got)
	})

	t.Run("fractional amount", func(t *testing.T) {
		got, err := ParseNative("0.5")
		require.NoError(t, err)
		assert.Equal(t, mustBig(t, "500000000000000000"), got)
	})

	t.Run("round trips with format", func(t *testing.T) {
		got, err := ParseNative("123.456")
		require.NoError(t, err)
		assert.Equal(t, "123.456", FormatNative(got))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseNative("not-a-number")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := ParseNative("0")
		assert.Error(t, err)
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := ParseNative("-1")
		assert.Error(t, err)
	})

	t.Run("rejects sub-wei precision", func(t *testing.T) {
		_, err := ParseNative("0.0000000000000000001")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Reason, "18 decimal places")
	})
}

func TestShortenHex(t *testing.T) {
	assert.Equal(t, "0xabc", ShortenHex("0xabc"))
	assert.Equal(t, "0x123456...cdef",
		ShortenHex("0x1234567890abcdef1234567890abcdef12345678cdef"))
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	return v
}
