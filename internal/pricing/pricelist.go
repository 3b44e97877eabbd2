package pricing

import "strings"

// PriceList is a named multiplier tier applied uniformly to every cart line.
type PriceList string

// Supported price lists.
const (
	PriceListStandard  PriceList = "standard"
	PriceListPremium   PriceList = "premium"
	PriceListWholesale PriceList = "wholesale"
)

// ParsePriceList normalises a tier name, falling back to standard.
func ParsePriceList(value string) PriceList {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(PriceListPremium):
		return PriceListPremium
	case string(PriceListWholesale):
		return PriceListWholesale
	default:
		return PriceListStandard
	}
}

// MultiplierBps returns the tier multiplier in basis points so unit prices
// stay in integer paise: standard 1.0x, premium 1.2x, wholesale 0.9x.
func (p PriceList) MultiplierBps() int64 {
	switch p {
	case PriceListPremium:
		return 12000
	case PriceListWholesale:
		return 9000
	default:
		return 10000
	}
}
