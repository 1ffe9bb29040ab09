package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/studio"
)

func TestParseContract_Variants(t *testing.T) {
	f := NewContractFactory(time.UTC)

	terms, err := f.ParseContract(`{"type":"RENT_MONTHLY","rent_amount":"400","renewal_date":"2025-04-01"}`)
	require.NoError(t, err)
	monthly, ok := terms.(studio.MonthlyRent)
	require.True(t, ok)
	assert.True(t, monthly.RenewalDate.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, monthly.Amount.Equal(studio.Money(400)))

	terms, err = f.ParseContract(`{"type":"rent_pack","rent_amount":150,"pack_total":10,"pack_used":3}`)
	require.NoError(t, err)
	assert.Equal(t, 10, terms.(studio.RentPack).Total)
	assert.Equal(t, 3, terms.(studio.RentPack).Used)

	terms, err = f.ParseContract(`{}`)
	require.NoError(t, err)
	assert.Equal(t, studio.NoContract{}, terms)
}

func TestParseContract_Rejects(t *testing.T) {
	f := NewContractFactory(time.UTC)

	tests := []struct {
		name  string
		json  string
		field string
	}{
		{"unknown type", `{"type":"LEASE"}`, "type"},
		{"monthly without date", `{"type":"RENT_MONTHLY","rent_amount":"400"}`, "renewal_date"},
		{"bad date", `{"type":"RENT_MONTHLY","renewal_date":"April 1st"}`, "renewal_date"},
		{"negative used", `{"type":"RENT_PACK","pack_total":10,"pack_used":-1}`, "pack_used"},
		{"malformed", `{"type":`, "contract"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseContract(tt.json)

			var verr *studio.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skip("tzdata not available")
	}
	f := NewContractFactory(rome)

	original := studio.MonthlyRent{Amount: studio.Money(400), RenewalDate: time.Date(2025, 4, 1, 0, 0, 0, 0, rome)}
	cj := f.ToJSON(original)
	assert.Equal(t, "2025-04-01", cj.RenewalDate)

	back, err := f.Build(cj)
	require.NoError(t, err)
	assert.True(t, back.(studio.MonthlyRent).RenewalDate.Equal(original.RenewalDate))

	assert.Equal(t, "NONE", f.ToJSON(studio.NoContract{}).Type)
	assert.Equal(t, 7, f.ToJSON(studio.RentPack{Total: 7}).PackTotal)
}
