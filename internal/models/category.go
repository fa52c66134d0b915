package models

// Category is a code from the closed set of tax-return expense categories.
// The set is fixed by the reporting scheme; free-form categories are not
// permitted anywhere in the ledger.
type Category string

const (
	CategoryRentIncome       Category = "rent-income"
	CategoryRepairs          Category = "repairs"
	CategoryAgentFees        Category = "agent-fees"
	CategoryInsurance        Category = "insurance"
	CategoryUtilities        Category = "utilities"
	CategoryGroundRent       Category = "ground-rent"
	CategoryTravel           Category = "travel"
	CategoryOffice           Category = "office"
	CategoryProfessionalFees Category = "professional-fees"
	// CategoryMortgageInterest is the finance-cost category. It is relieved
	// at a fixed rate instead of being deducted from profit.
	CategoryMortgageInterest Category = "mortgage-interest"
	CategoryOtherAllowable   Category = "other-allowable"
	// CategoryPersonal marks non-deductible personal spending.
	CategoryPersonal Category = "personal"
	// CategoryUncategorized is the default for anything not yet classified.
	CategoryUncategorized Category = "uncategorized"
)

// categoryOrder fixes the display and aggregation order of the closed set.
var categoryOrder = []Category{
	CategoryRentIncome,
	CategoryRepairs,
	CategoryAgentFees,
	CategoryInsurance,
	CategoryUtilities,
	CategoryGroundRent,
	CategoryTravel,
	CategoryOffice,
	CategoryProfessionalFees,
	CategoryMortgageInterest,
	CategoryOtherAllowable,
	CategoryPersonal,
	CategoryUncategorized,
}

var categoryLabels = map[Category]string{
	CategoryRentIncome:       "Rental income",
	CategoryRepairs:          "Repairs and maintenance",
	CategoryAgentFees:        "Letting agent fees",
	CategoryInsurance:        "Insurance",
	CategoryUtilities:        "Utilities and council tax",
	CategoryGroundRent:       "Ground rent and service charges",
	CategoryTravel:           "Travel",
	CategoryOffice:           "Office and admin",
	CategoryProfessionalFees: "Legal and professional fees",
	CategoryMortgageInterest: "Mortgage interest (finance costs)",
	CategoryOtherAllowable:   "Other allowable expenses",
	CategoryPersonal:         "Personal (non-deductible)",
	CategoryUncategorized:    "Uncategorized",
}

// Categories returns the closed set in its fixed order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ValidCategory reports whether code is a member of the closed set.
func ValidCategory(code Category) bool {
	_, ok := categoryLabels[code]
	return ok
}

// ParseCategory returns the category for code, or CategoryUncategorized
// when code is not a member of the closed set.
func ParseCategory(code string) Category {
	c := Category(code)
	if ValidCategory(c) {
		return c
	}
	return CategoryUncategorized
}

// Deductible reports whether expenses in this category count toward the
// deductible-expense aggregate. Personal spending and unclassified
// transactions never do.
func (c Category) Deductible() bool {
	return ValidCategory(c) && c != CategoryPersonal && c != CategoryUncategorized
}

// IsFinanceCost reports whether this is the distinguished finance-cost
// category subject to rate relief rather than deduction.
func (c Category) IsFinanceCost() bool {
	return c == CategoryMortgageInterest
}

// Label returns the fixed display label for the category, or the raw code
// if the code is unknown.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}
