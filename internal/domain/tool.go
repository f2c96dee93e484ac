package domain

import "github.com/shopspring/decimal"

type ToolCategory string

const (
	ToolCategoryChainsaw   ToolCategory = "CHAINSAW"
	ToolCategoryLadder     ToolCategory = "LADDER"
	ToolCategoryJackhammer ToolCategory = "JACKHAMMER"
)

var toolCategoryNames = map[ToolCategory]string{
	ToolCategoryChainsaw:   "Chainsaw",
	ToolCategoryLadder:     "Ladder",
	ToolCategoryJackhammer: "Jackhammer",
}

// Valid reports whether c is one of the known tool categories.
func (c ToolCategory) Valid() bool {
	_, ok := toolCategoryNames[c]
	return ok
}

// DisplayName returns the human readable category name, e.g. "Jackhammer".
func (c ToolCategory) DisplayName() string {
	if name, ok := toolCategoryNames[c]; ok {
		return name
	}
	return string(c)
}

type ToolBrand string

const (
	ToolBrandStihl  ToolBrand = "STIHL"
	ToolBrandWerner ToolBrand = "WERNER"
	ToolBrandDeWalt ToolBrand = "DEWALT"
	ToolBrandRidgid ToolBrand = "RIDGID"
)

var toolBrandNames = map[ToolBrand]string{
	ToolBrandStihl:  "Stihl",
	ToolBrandWerner: "Werner",
	ToolBrandDeWalt: "DeWalt",
	ToolBrandRidgid: "Ridgid",
}

func (b ToolBrand) Valid() bool {
	_, ok := toolBrandNames[b]
	return ok
}

func (b ToolBrand) DisplayName() string {
	if name, ok := toolBrandNames[b]; ok {
		return name
	}
	return string(b)
}

// ChargePolicy says which kinds of days a tool's daily charge applies to.
type ChargePolicy struct {
	Weekday bool `json:"weekday_charge"`
	Weekend bool `json:"weekend_charge"`
	Holiday bool `json:"holiday_charge"`
}

// Tool is a rentable tool together with its billing policy. Available is owned by
// the inventory; the checkout flow only changes it through the repository.
type Tool struct {
	Code        string          `json:"code"`
	Category    ToolCategory    `json:"category"`
	Brand       ToolBrand       `json:"brand"`
	DailyCharge decimal.Decimal `json:"daily_charge"`
	ChargePolicy
	Available bool `json:"available"`
}
