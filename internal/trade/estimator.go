package trade

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var oneHundred = decimal.NewFromInt(100)

// Estimator computes duty, VAT and landed cost from the static rate tables.
type Estimator struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEstimator creates a new tax/duty estimator.
func NewEstimator(logger *zap.Logger) *Estimator {
	return &Estimator{logger: logger, now: time.Now}
}

// EstimateTaxes produces one TaxCalculation per destination country, order
// preserved from the input. The duty rate is the category base rate scaled
// by the destination's multiplier; VAT is applied to the duty-inclusive
// value, matching EU import VAT convention. Unknown destinations use the
// default multiplier and VAT rate rather than failing.
func (e *Estimator) EstimateTaxes(value decimal.Decimal, category, hsCode string, destinations []string) ([]TaxCalculation, error) {
	if value.IsNegative() {
		return nil, ErrNegativeValue
	}
	if len(destinations) == 0 {
		return nil, ErrNoDestinations
	}

	effectiveDate := e.now().UTC().Format("2006-01-02")

	calculations := make([]TaxCalculation, 0, len(destinations))
	for _, country := range destinations {
		dutyRate := CountryDutyRate(country, category)
		vatRate := CountryVATRate(country)

		dutyAmount := value.Mul(dutyRate).Div(oneHundred)
		vatAmount := value.Add(dutyAmount).Mul(vatRate).Div(oneHundred)
		totalTax := dutyAmount.Add(vatAmount)
		totalAmount := value.Add(totalTax)

		calculations = append(calculations, TaxCalculation{
			ProductValue: value,
			HSCode:       hsCode,
			Country:      country,
			VATRate:      vatRate,
			DutyRate:     dutyRate,
			VATAmount:    vatAmount,
			DutyAmount:   dutyAmount,
			TotalTax:     totalTax,
			TotalAmount:  totalAmount,
			Breakdown: TaxBreakdown{
				BaseValue:      value,
				Duty:           dutyAmount,
				VAT:            vatAmount,
				AdditionalFees: decimal.Zero,
			},
			EffectiveDate:   effectiveDate,
			TradeAgreements: TradeAgreementsFor(country),
		})
	}

	e.logger.Debug("Estimated taxes",
		zap.String("hs_code", hsCode),
		zap.String("category", category),
		zap.Int("destinations", len(destinations)))

	return calculations, nil
}

// CountryDutyRate returns the effective duty rate (percent) for a category
// shipped to a destination: base rate scaled by the country multiplier.
func CountryDutyRate(country, category string) decimal.Decimal {
	baseRate := DutyRateForCategory(category)
	if multiplier, ok := countryDutyMultipliers[country]; ok {
		return baseRate.Mul(multiplier)
	}
	return baseRate
}

// CountryVATRate returns the VAT/GST rate (percent) for a destination,
// defaulting to DefaultVATRate for unknown countries.
func CountryVATRate(country string) decimal.Decimal {
	if rate, ok := countryVATRates[country]; ok {
		return rate
	}
	return DefaultVATRate
}

// TradeAgreementsFor returns the applicable agreement labels for a
// destination; countries without an entry get an empty slice.
func TradeAgreementsFor(country string) []string {
	if agreements, ok := countryTradeAgreements[country]; ok {
		return append([]string(nil), agreements...)
	}
	return []string{}
}
