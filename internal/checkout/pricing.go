package checkout

import "dishpatch-be/internal/money"

// PricingConfig holds the fee policy applied at confirmation time.
type PricingConfig struct {
	TaxRateBasisPoints int64       // e.g. 600 = 6%
	DeliveryFee        money.Cents // flat fee per order
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		TaxRateBasisPoints: 600,
		DeliveryFee:        money.Cents(300),
	}
}

// Quote is the full price breakdown for one checkout attempt.
type Quote struct {
	Subtotal    money.Cents `json:"subtotal"`
	Tax         money.Cents `json:"tax"`
	DeliveryFee money.Cents `json:"delivery_fee"`
	Tip         money.Cents `json:"tip"`
	Discount    money.Cents `json:"discount"`
	Total       money.Cents `json:"total"`
}

// Quote prices an order: subtotal + tax + delivery fee + tip - promo
// discount. Tax rounds half away from zero at the cent.
func (c PricingConfig) Quote(subtotal, tip, discount money.Cents) Quote {
	tax := money.Cents((int64(subtotal)*c.TaxRateBasisPoints + 5000) / 10000)

	return Quote{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: c.DeliveryFee,
		Tip:         tip,
		Discount:    discount,
		Total:       subtotal + tax + c.DeliveryFee + tip - discount,
	}
}
