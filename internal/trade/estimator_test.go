package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestEstimateTaxesGermanyAudioScenario(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())

	calcs, err := estimator.EstimateTaxes(
		decimal.NewFromInt(100), "Electronics - Audio", "8518.30.00", []string{"Germany"})
	require.NoError(t, err)
	require.Len(t, calcs, 1)

	calc := calcs[0]
	assert.Equal(t, "Germany", calc.Country)
	assert.True(t, calc.DutyRate.Equal(mustDecimal(t, "2.5")), "duty rate %s", calc.DutyRate)
	assert.True(t, calc.VATRate.Equal(mustDecimal(t, "19")), "vat rate %s", calc.VATRate)
	assert.True(t, calc.DutyAmount.Equal(mustDecimal(t, "2.50")), "duty amount %s", calc.DutyAmount)
	assert.True(t, calc.VATAmount.Equal(mustDecimal(t, "19.475")), "vat amount %s", calc.VATAmount)
	assert.True(t, calc.TotalTax.Equal(mustDecimal(t, "21.975")), "total tax %s", calc.TotalTax)
	assert.True(t, calc.TotalAmount.Equal(mustDecimal(t, "121.975")), "total amount %s", calc.TotalAmount)
	assert.Equal(t, []string{"EU Single Market", "EU-Mercosur Agreement"}, calc.TradeAgreements)
}

func TestEstimateTaxesVATOnDutyInclusiveValue(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())

	tests := []struct {
		name     string
		value    string
		category string
		country  string
	}{
		{"audio to germany", "100", "Electronics - Audio", "Germany"},
		{"textiles to uk", "250.75", "Textiles - Tops", "United Kingdom"},
		{"footwear to australia", "89.99", "Footwear", "Australia"},
		{"wearables to canada", "249", "Electronics - Wearables", "Canada"},
		{"unknown category unknown country", "42", "Mystery", "Atlantis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := mustDecimal(t, tt.value)
			calcs, err := estimator.EstimateTaxes(value, tt.category, "0000.00.00", []string{tt.country})
			require.NoError(t, err)
			require.Len(t, calcs, 1)
			calc := calcs[0]

			// vat = (value + duty) * vatRate / 100, exactly.
			wantVAT := value.Add(calc.DutyAmount).Mul(calc.VATRate).Div(decimal.NewFromInt(100))
			assert.True(t, calc.VATAmount.Equal(wantVAT),
				"vat %s, want %s", calc.VATAmount, wantVAT)

			// total = value + duty + vat, exactly.
			wantTotal := value.Add(calc.DutyAmount).Add(calc.VATAmount)
			assert.True(t, calc.TotalAmount.Equal(wantTotal),
				"total %s, want %s", calc.TotalAmount, wantTotal)

			// landed cost never undercuts the product value.
			assert.True(t, calc.TotalAmount.GreaterThanOrEqual(value))
		})
	}
}

func TestEstimateTaxesUnknownCountryDefaults(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())

	calcs, err := estimator.EstimateTaxes(
		decimal.NewFromInt(100), "Electronics - Audio", "8518.30.00", []string{"Narnia"})
	require.NoError(t, err)
	require.Len(t, calcs, 1)

	// duty multiplier defaults to 1.0, VAT defaults to 20.0.
	assert.True(t, calcs[0].DutyRate.Equal(mustDecimal(t, "2.5")))
	assert.True(t, calcs[0].VATRate.Equal(DefaultVATRate))
	assert.Empty(t, calcs[0].TradeAgreements)
}

func TestEstimateTaxesCountryMultipliers(t *testing.T) {
	// Canada scales duty down, Australia scales it up.
	canada := CountryDutyRate("Canada", "Textiles - Tops")
	assert.True(t, canada.Equal(mustDecimal(t, "13.2")), "canada duty %s", canada)

	australia := CountryDutyRate("Australia", "Textiles - Tops")
	assert.True(t, australia.Equal(mustDecimal(t, "19.8")), "australia duty %s", australia)
}

func TestEstimateTaxesPreservesDestinationOrder(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())
	destinations := []string{"Australia", "Germany", "Canada", "United Kingdom", "France"}

	calcs, err := estimator.EstimateTaxes(
		decimal.NewFromInt(100), "Electronics - Audio", "8518.30.00", destinations)
	require.NoError(t, err)
	require.Len(t, calcs, len(destinations))

	for i, country := range destinations {
		assert.Equal(t, country, calcs[i].Country)
	}
}

func TestEstimateTaxesRejectsNegativeValue(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())

	_, err := estimator.EstimateTaxes(
		decimal.NewFromInt(-1), "Electronics - Audio", "8518.30.00", []string{"Germany"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrNegativeValue)
}

func TestEstimateTaxesRequiresDestinations(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())

	_, err := estimator.EstimateTaxes(
		decimal.NewFromInt(100), "Electronics - Audio", "8518.30.00", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEstimateTaxesZeroValue(t *testing.T) {
	estimator := NewEstimator(zap.NewNop())

	calcs, err := estimator.EstimateTaxes(
		decimal.Zero, "Electronics - Audio", "8518.30.00", []string{"Germany"})
	require.NoError(t, err)
	assert.True(t, calcs[0].TotalAmount.IsZero())
}
