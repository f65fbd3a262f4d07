package trade

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Classifier infers HS codes and trade categories from free-text product
// descriptors using the static rules tables. It is a pure function over
// those tables: it never errors and never calls out.
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier creates a new deterministic classifier.
func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Classify resolves a descriptor to an HS code classification. Inputs are
// matched case-insensitively against the ordered signature list; the first
// matching signature wins. Descriptors no signature matches degrade to the
// sentinel code with default duty rate rather than erroring.
func (c *Classifier) Classify(descriptor ProductDescriptor) ClassificationResult {
	hsCode := c.inferHSCode(descriptor)

	category := descriptor.Category
	if category == "" {
		category = CategorizeName(descriptor.Name)
	}

	confidence := MatchedConfidence
	if hsCode == SentinelHSCode {
		confidence = UnmatchedConfidence
	}

	result := ClassificationResult{
		HSCode:           hsCode,
		Description:      describeHSCode(hsCode, descriptor),
		Category:         category,
		DutyRate:         DutyRateForCategory(category),
		Confidence:       confidence,
		Restrictions:     restrictionsForCategory(category),
		AlternativeCodes: alternativeCodesFor(hsCode),
		TariffSchedule:   TariffScheduleLabel,
	}

	c.logger.Debug("Classified product",
		zap.String("product", descriptor.Name),
		zap.String("hs_code", result.HSCode),
		zap.String("category", result.Category),
		zap.Int("confidence", result.Confidence))

	return result
}

// inferHSCode walks the ordered signature list and returns the first match.
func (c *Classifier) inferHSCode(descriptor ProductDescriptor) string {
	category := strings.ToLower(descriptor.Category)
	name := strings.ToLower(descriptor.Name + " " + descriptor.Description)
	attributes := strings.ToLower(strings.Join(descriptor.Attributes, " "))
	objects := strings.ToLower(strings.Join(descriptor.DetectedObjects, " "))

	for _, sig := range hsCodeSignatures {
		if containsAny(category, sig.categoryTerms) ||
			containsAny(name, sig.nameTerms) ||
			containsAny(objects, sig.objectTerms) ||
			containsAny(attributes, sig.attrTerms) {
			return sig.hsCode
		}
	}

	return SentinelHSCode
}

// describeHSCode returns the canonical tariff description for a code,
// falling back to a name/category composite for codes outside the table.
func describeHSCode(hsCode string, descriptor ProductDescriptor) string {
	if desc, ok := hsDescriptions[hsCode]; ok {
		return desc
	}
	return descriptor.Name + " - " + descriptor.Category
}

// DutyRateForCategory returns the base duty rate (percent) for a category,
// defaulting to DefaultDutyRate for unknown categories.
func DutyRateForCategory(category string) decimal.Decimal {
	if rate, ok := categoryDutyRates[category]; ok {
		return rate
	}
	return DefaultDutyRate
}

// restrictionsForCategory appends import notices per coarse category bucket.
// Categories outside every bucket get a single generic notice.
func restrictionsForCategory(category string) []string {
	lower := strings.ToLower(category)

	var restrictions []string
	if strings.Contains(lower, "electronics") {
		restrictions = append(restrictions, electronicsRestrictions...)
	}
	if strings.Contains(lower, "textiles") {
		restrictions = append(restrictions, textilesRestrictions...)
	}
	if strings.Contains(lower, "food") || strings.Contains(lower, "beverage") {
		restrictions = append(restrictions, foodRestrictions...)
	}

	if len(restrictions) == 0 {
		return append([]string(nil), genericRestrictions...)
	}
	return restrictions
}

// alternativeCodesFor returns related codes from the adjacency table.
// Codes without an entry yield an empty slice.
func alternativeCodesFor(hsCode string) []string {
	if alts, ok := alternativeHSCodes[hsCode]; ok {
		return append([]string(nil), alts...)
	}
	return []string{}
}

// CategorizeName maps a product name to a trade category via the ordered
// keyword table, defaulting to DefaultCategory.
func CategorizeName(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range nameCategoryRules {
		if containsAny(lower, rule.terms) {
			return rule.category
		}
	}
	return DefaultCategory
}

// EstimatePrice returns a base USD market price estimate for a product name.
func EstimatePrice(name string) decimal.Decimal {
	lower := strings.ToLower(name)
	for _, rule := range basePriceRules {
		if containsAny(lower, rule.terms) {
			return rule.price
		}
	}
	return DefaultBasePrice
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if containsTerm(haystack, term) {
			return true
		}
	}
	return false
}

// containsTerm reports whether term occurs in haystack at the start of a
// word. Compounds like "headphone" must not trigger the shorter "phone"
// rule, while suffixed forms ("phones", "shirts") still match.
func containsTerm(haystack, term string) bool {
	for start := 0; start <= len(haystack)-len(term); {
		idx := strings.Index(haystack[start:], term)
		if idx < 0 {
			return false
		}
		pos := start + idx
		if pos == 0 || !isLowerLetter(haystack[pos-1]) {
			return true
		}
		start = pos + 1
	}
	return false
}

func isLowerLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
