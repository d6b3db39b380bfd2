package models

import "time"

// Products a subscription can be sold for. Closed set, mirrored by a
// CHECK constraint in the schema.
const (
	ProductFragment = "Fragment"
	ProductItem2    = "Item2"
	ProductItem3    = "Item3"
)

// Billing plans. Closed set, mirrored by a CHECK constraint.
const (
	PlanTrial  = "Trial"
	Plan1Month = "1 Month"
	Plan3Month = "3 Month"
	Plan1Year  = "1 Year"
)

func IsValidProduct(p string) bool {
	switch p {
	case ProductFragment, ProductItem2, ProductItem3:
		return true
	}
	return false
}

func IsValidPlan(p string) bool {
	switch p {
	case PlanTrial, Plan1Month, Plan3Month, Plan1Year:
		return true
	}
	return false
}

type Subscription struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Product     string     `json:"product"`
	Plan        string     `json:"plan"`
	APIKey      string     `json:"api_key"`
	DateCreated time.Time  `json:"date_created"`
	DateRevoked *time.Time `json:"date_revoked,omitempty"`
}

// Revoked reports whether the subscription's key has been permanently
// deactivated.
func (s *Subscription) Revoked() bool {
	return s.DateRevoked != nil
}

type SubscriptionUpdate struct {
	Product *string
	Plan    *string
}

func (u SubscriptionUpdate) Empty() bool {
	return u.Product == nil && u.Plan == nil
}

type SubscriptionStats struct {
	Total     int64            `json:"total"`
	Active    int64            `json:"active"`
	Revoked   int64            `json:"revoked"`
	ByProduct map[string]int64 `json:"by_product"`
	ByPlan    map[string]int64 `json:"by_plan"`
}
