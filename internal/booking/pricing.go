package booking

// serviceFeePercent is the marketplace service fee applied to the nights
// price.
const serviceFeePercent = 5

// PriceBreakdown holds the computed price components of a reservation,
// all in cents. TotalCents = NightsCents + CleaningFeeCents + ServiceFeeCents.
type PriceBreakdown struct {
	NightsCents      int64
	CleaningFeeCents int64
	ServiceFeeCents  int64
	TotalCents       int64
}

// Quote computes the price breakdown for a stay. The service fee is 5%
// of the nights price rounded half-up to whole cents; integer arithmetic
// keeps the rounding exact.
func Quote(pricePerNightCents, cleaningFeeCents int64, nights int) PriceBreakdown {
	nightsCents := pricePerNightCents * int64(nights)
	serviceFee := (nightsCents*serviceFeePercent + 50) / 100
	return PriceBreakdown{
		NightsCents:      nightsCents,
		CleaningFeeCents: cleaningFeeCents,
		ServiceFeeCents:  serviceFee,
		TotalCents:       nightsCents + cleaningFeeCents + serviceFee,
	}
}
