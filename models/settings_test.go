package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFindPromoCaseInsensitive(t *testing.T) {
	s := Settings{PromoCodes: []PromoCode{
		{Code: "SAVE10", DiscountType: DiscountFixed, DiscountValue: 100},
		{Code: "EID25", DiscountType: DiscountPercentage, DiscountValue: 25},
	}}

	for _, lookup := range []string{"SAVE10", "save10", " Save10 "} {
		p, ok := s.FindPromo(lookup)
		assert.True(t, ok, lookup)
		assert.Equal(t, "SAVE10", p.Code)
	}

	_, ok := s.FindPromo("NOPE")
	assert.False(t, ok)
}

func TestPromoRedeemable(t *testing.T) {
	now := time.Now()

	live := PromoCode{IsEnabled: true, ExpiryDate: now.Add(24 * time.Hour)}
	assert.True(t, live.Redeemable(now))

	expired := PromoCode{IsEnabled: true, ExpiryDate: now.Add(-time.Minute)}
	assert.False(t, expired.Redeemable(now))

	disabled := PromoCode{IsEnabled: false, ExpiryDate: now.Add(24 * time.Hour)}
	assert.False(t, disabled.Redeemable(now))

	// Usage counters do not gate redemption.
	maxedOut := PromoCode{IsEnabled: true, ExpiryDate: now.Add(24 * time.Hour), UsageLimit: 5, UsedCount: 5}
	assert.True(t, maxedOut.Redeemable(now))
}
