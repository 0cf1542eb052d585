package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"+1 (555) 123-4567", "15551234567"},
		{"555.123.4567", "5551234567"},
		{"5551234567", "5551234567"},
		{"", ""},
		{"ext", ""},
		{"１２３", "123"},
		{"＋１ ５５５ ０１００", "15550100"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestParseHooks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `["a","b"]`, []string{"a", "b"}},
		{"encoded string", `"[\"a\",\"b\"]"`, []string{"a", "b"}},
		{"null", `null`, nil},
		{"empty", ``, nil},
		{"keeps blank positions", `["","a","  "]`, []string{"", "a", "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseHooks([]byte(tt.raw))
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStringList(t *testing.T) {
	t.Parallel()

	got, err := ParseStringList([]byte(`["no heat","  ","","gas smell"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"no heat", "gas smell"}, got)

	got, err = ParseStringList([]byte(`"[\"\",\" \"]"`))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseStringList([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseHooks_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseHooks([]byte(`{"not":"a list"}`))
	assert.Error(t, err)

	_, err = ParseHooks([]byte(`"not json inside"`))
	assert.Error(t, err)
}

func TestTenantCompanyName(t *testing.T) {
	t.Parallel()

	var nilTenant *Tenant
	assert.Equal(t, DefaultCompanyName, nilTenant.CompanyName())
	assert.Equal(t, DefaultCompanyName, (&Tenant{}).CompanyName())
	assert.Equal(t, "Cool Breeze HVAC", (&Tenant{Name: "Cool Breeze HVAC"}).CompanyName())
}

func TestFailedBriefing(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	b := FailedBriefing("call-1", "+15551234567", errors.New("boom"), now)

	assert.False(t, b.Success)
	assert.Equal(t, "boom", b.Error)
	assert.True(t, b.IsNewCaller)
	assert.False(t, b.HasPropertyHistory)
	assert.Equal(t, 100, b.ConfidenceScore)
	assert.Equal(t, 50, b.RelationshipScore)
	assert.Equal(t, VibeStranger, b.VibeCategory)
	assert.Equal(t, "call-1", b.CallID)
	assert.NotNil(t, b.AvailableSlotsToday)
	assert.NotNil(t, b.EmergencyKeywords)
	assert.Equal(t, now, b.Timestamp)
}

func TestStringPtr(t *testing.T) {
	t.Parallel()

	assert.Nil(t, StringPtr(""))
	require.NotNil(t, StringPtr("x"))
	assert.Equal(t, "x", *StringPtr("x"))
}
