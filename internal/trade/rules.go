package trade

import "github.com/shopspring/decimal"

// TariffScheduleLabel tags every classification with the schedule edition
// the rules tables were derived from.
const TariffScheduleLabel = "2024 Harmonized Tariff Schedule"

// SentinelHSCode is returned for products no signature matches.
const SentinelHSCode = "9999.99.99"

const (
	// MatchedConfidence is the fixed confidence assigned to any rule hit.
	// It is intentionally not data-derived.
	MatchedConfidence = 94
	// UnmatchedConfidence is the lower-trust constant for sentinel results.
	UnmatchedConfidence = 85
)

// categorySignature is one (predicate, result) pair of the first-match
// classifier. Evaluation order is the slice order of hsCodeSignatures and is
// load-bearing: reordering changes classifications.
type categorySignature struct {
	hsCode        string
	category      string
	categoryTerms []string
	nameTerms     []string
	objectTerms   []string
	attrTerms     []string
}

// hsCodeSignatures is the ordered rule list for HS code inference.
// First matching signature wins.
var hsCodeSignatures = []categorySignature{
	{
		hsCode:        "8517.12.00",
		category:      "Electronics - Mobile Devices",
		categoryTerms: []string{"mobile"},
		nameTerms:     []string{"phone", "smartphone"},
		objectTerms:   []string{"mobile phone", "smartphone"},
	},
	{
		hsCode:        "8471.30.01",
		category:      "Electronics - Computing",
		categoryTerms: []string{"computing"},
		nameTerms:     []string{"laptop", "computer"},
		objectTerms:   []string{"laptop", "computer"},
	},
	{
		hsCode:        "8518.30.00",
		category:      "Electronics - Audio",
		categoryTerms: []string{"audio"},
		nameTerms:     []string{"headphone", "speaker"},
		objectTerms:   []string{"headphones"},
		attrTerms:     []string{"audio"},
	},
	{
		hsCode:        "8525.80.30",
		category:      "Electronics - Photography",
		categoryTerms: []string{"photography"},
		nameTerms:     []string{"camera"},
		objectTerms:   []string{"camera"},
	},
	{
		hsCode:        "9102.11.00",
		category:      "Electronics - Wearables",
		categoryTerms: []string{"wearables"},
		nameTerms:     []string{"watch", "smartwatch"},
		objectTerms:   []string{"watch"},
	},
	{
		hsCode:        "6109.10.00",
		category:      "Textiles - Tops",
		categoryTerms: []string{"textiles", "tops"},
		nameTerms:     []string{"shirt"},
		objectTerms:   []string{"clothing"},
	},
}

// hsDescriptions maps HS codes to their canonical tariff descriptions.
var hsDescriptions = map[string]string{
	"8517.12.00":   "Telephones for cellular networks or for other wireless networks",
	"8471.30.01":   "Portable automatic data processing machines, weighing not more than 10 kg",
	"8518.30.00":   "Headphones and earphones, whether or not combined with a microphone",
	"8525.80.30":   "Television cameras, digital cameras and video camera recorders",
	"9102.11.00":   "Wrist-watches, electrically operated, whether or not incorporating a stop-watch facility",
	"6109.10.00":   "T-shirts, singlets and other vests, of cotton, knitted or crocheted",
	SentinelHSCode: "Other products not elsewhere specified",
}

// DefaultDutyRate applies to categories absent from categoryDutyRates.
var DefaultDutyRate = decimal.NewFromFloat(5.0)

// categoryDutyRates maps canonical categories to base duty rates (percent).
var categoryDutyRates = map[string]decimal.Decimal{
	"Electronics - Mobile Devices": decimal.Zero,
	"Electronics - Computing":      decimal.Zero,
	"Electronics - Audio":          decimal.NewFromFloat(2.5),
	"Electronics - Photography":    decimal.Zero,
	"Electronics - Wearables":      decimal.NewFromFloat(4.2),
	"Textiles - Tops":              decimal.NewFromFloat(16.5),
	"Textiles - Bottoms":           decimal.NewFromFloat(16.6),
	"Footwear":                     decimal.NewFromFloat(37.5),
	"Leather Goods":                decimal.NewFromFloat(17.6),
}

// countryDutyMultipliers scales the category base rate per destination.
// Unknown countries use 1.0.
var countryDutyMultipliers = map[string]decimal.Decimal{
	"United Kingdom": decimal.NewFromFloat(1.0),
	"Germany":        decimal.NewFromFloat(1.0),
	"France":         decimal.NewFromFloat(1.0),
	"Canada":         decimal.NewFromFloat(0.8),
	"Australia":      decimal.NewFromFloat(1.2),
}

// DefaultVATRate applies to countries absent from countryVATRates.
var DefaultVATRate = decimal.NewFromFloat(20.0)

// countryVATRates maps destinations to VAT/GST rates (percent).
var countryVATRates = map[string]decimal.Decimal{
	"United Kingdom": decimal.NewFromFloat(20.0),
	"Germany":        decimal.NewFromFloat(19.0),
	"France":         decimal.NewFromFloat(20.0),
	"Canada":         decimal.NewFromFloat(5.0),  // GST
	"Australia":      decimal.NewFromFloat(10.0), // GST
}

// countryTradeAgreements maps destinations to applicable agreement labels.
var countryTradeAgreements = map[string][]string{
	"United Kingdom": {"UK-EU Trade Agreement", "CPTPP (pending)"},
	"Germany":        {"EU Single Market", "EU-Mercosur Agreement"},
	"France":         {"EU Single Market", "EU-Japan EPA"},
	"Canada":         {"USMCA", "CETA", "CPTPP"},
	"Australia":      {"CPTPP", "RCEP", "AUSFTA"},
}

// alternativeHSCodes is a static adjacency table of related codes.
var alternativeHSCodes = map[string][]string{
	"8518.30.00": {"8518.21.00", "8518.29.00"},
	"8517.12.00": {"8517.11.00", "8517.18.00"},
	"8471.30.01": {"8471.41.01", "8471.49.00"},
	"6109.10.00": {"6109.90.00", "6205.20.00"},
}

// restriction notices per coarse category bucket.
var (
	electronicsRestrictions = []string{
		"CE marking required for EU markets",
		"FCC certification required for US market",
		"RoHS compliance required",
		"Energy efficiency labeling may be required",
	}
	textilesRestrictions = []string{
		"Textile labeling requirements",
		"REACH compliance for chemical substances",
		"Country of origin marking required",
	}
	foodRestrictions = []string{
		"FDA approval required for US",
		"Health certificates required",
		"Nutritional labeling mandatory",
	}
	genericRestrictions = []string{
		"Standard import documentation required",
	}
)

// nameCategoryRule maps a product-name keyword to a trade category.
// Evaluated in order; first hit wins.
type nameCategoryRule struct {
	terms    []string
	category string
}

var nameCategoryRules = []nameCategoryRule{
	{[]string{"phone", "smartphone"}, "Electronics - Mobile Devices"},
	{[]string{"laptop", "computer"}, "Electronics - Computing"},
	{[]string{"headphone", "speaker"}, "Electronics - Audio"},
	{[]string{"camera"}, "Electronics - Photography"},
	{[]string{"watch", "smartwatch"}, "Electronics - Wearables"},
	{[]string{"shirt", "clothing"}, "Textiles - Tops"},
	{[]string{"shoe", "footwear"}, "Footwear"},
	{[]string{"furniture"}, "Home & Garden - Furniture"},
	{[]string{"kitchen", "cookware"}, "Home & Garden - Kitchen"},
	{[]string{"sport", "fitness"}, "Sports & Recreation"},
	{[]string{"toy", "game"}, "Toys & Games"},
}

// DefaultCategory is assigned when no name keyword matches.
const DefaultCategory = "General Merchandise"

// basePriceRule maps a product-name keyword to a base USD price estimate.
type basePriceRule struct {
	terms []string
	price decimal.Decimal
}

var basePriceRules = []basePriceRule{
	{[]string{"phone", "smartphone"}, decimal.NewFromInt(299)},
	{[]string{"laptop", "computer"}, decimal.NewFromInt(799)},
	{[]string{"headphone"}, decimal.NewFromInt(149)},
	{[]string{"camera"}, decimal.NewFromInt(599)},
	{[]string{"watch", "smartwatch"}, decimal.NewFromInt(249)},
	{[]string{"shirt", "clothing"}, decimal.NewFromInt(29)},
	{[]string{"shoe"}, decimal.NewFromInt(89)},
	{[]string{"furniture"}, decimal.NewFromInt(199)},
	{[]string{"kitchen"}, decimal.NewFromInt(79)},
	{[]string{"sport", "fitness"}, decimal.NewFromInt(39)},
	{[]string{"toy"}, decimal.NewFromInt(24)},
}

// DefaultBasePrice is the estimate for names no price rule matches.
var DefaultBasePrice = decimal.NewFromInt(50)
