package payment

import "theeyouspace/models"

// All amounts in paise (1 rupee = 100 paise). Prices are GST-inclusive
// final amounts: normal Rs.613, priority Rs.1020.
var priceTable = map[string]models.Pricing{
	models.SessionTypeNormal: {
		BaseAmount:  60000,
		PlatformFee: 1300, // Rs.13 to land on the Rs.613 total
	},
	models.SessionTypePriority: {
		BaseAmount:  100000,
		PlatformFee: 2000, // 2% of Rs.1000
	},
}

// GetPricing returns the pricing snapshot for a session type. Unknown
// types fall back to the normal session.
func GetPricing(sessionType string) models.Pricing {
	p, ok := priceTable[sessionType]
	if !ok {
		p = priceTable[models.SessionTypeNormal]
	}
	p.TotalAmount = p.BaseAmount + p.PlatformFee
	p.DisplayAmount = p.TotalAmount / 100
	p.Currency = "INR"
	return p
}
