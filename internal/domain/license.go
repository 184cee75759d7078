package domain

import "github.com/shopspring/decimal"

// LicenseRate is the share of the base cost charged as license cost.
var LicenseRate = decimal.RequireFromString("0.10")

// LicenseCost derives the target license cost from a base cost, rounded
// half away from zero to cents. The persisted column uses the same formula.
func LicenseCost(base decimal.Decimal) decimal.Decimal {
	return base.Mul(LicenseRate).Round(2)
}

// FormatMoney renders an amount with exactly two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
