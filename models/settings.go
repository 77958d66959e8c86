package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PromoCode lives embedded in the homepage settings document rather than
// its own collection. UsageLimit/UsedCount are reporting fields; nothing
// checks them at redemption time.
type PromoCode struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code          string             `bson:"code" json:"code"`
	DiscountType  DiscountType       `bson:"discountType" json:"discountType"`
	DiscountValue float64            `bson:"discountValue" json:"discountValue"`
	ExpiryDate    time.Time          `bson:"expiryDate" json:"expiryDate"`
	UsageLimit    int                `bson:"usageLimit,omitempty" json:"usageLimit,omitempty"`
	UsedCount     int                `bson:"usedCount" json:"usedCount"`
	IsEnabled     bool               `bson:"isEnabled" json:"isEnabled"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Redeemable reports whether the code can be applied at the given time.
func (p PromoCode) Redeemable(now time.Time) bool {
	return p.IsEnabled && now.Before(p.ExpiryDate)
}

// Settings is the single site-wide settings document ("homepage"
// document). There is exactly one per deployment.
type Settings struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PromoEnabled bool               `bson:"promoEnabled" json:"promoEnabled"`
	PromoCodes   []PromoCode        `bson:"promoCodes" json:"promoCodes"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindPromo looks up a code case-insensitively.
func (s *Settings) FindPromo(code string) (PromoCode, bool) {
	want := strings.ToUpper(strings.TrimSpace(code))
	for _, p := range s.PromoCodes {
		if strings.ToUpper(p.Code) == want {
			return p, true
		}
	}
	return PromoCode{}, false
}
