package domain

type OrderStatus string

const (
	OrderPendingApproval OrderStatus = "pending_admin_approval"
	OrderApproved        OrderStatus = "approved"
	OrderShipped         OrderStatus = "shipped"
	OrderDelivered       OrderStatus = "delivered"
	OrderCancelled       OrderStatus = "cancelled"
)

// orderTransitions is the single source of truth for legal status moves.
// No transition skips a state; cancelled is reachable only before approval.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPendingApproval: {OrderApproved, OrderCancelled},
	OrderApproved:        {OrderShipped},
	OrderShipped:         {OrderDelivered},
	OrderDelivered:       {},
	OrderCancelled:       {},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Completed reports whether the order counts toward demand analytics.
func (s OrderStatus) Completed() bool {
	return s == OrderApproved || s == OrderShipped || s == OrderDelivered
}

type ListingStatus string

const (
	ListingDraft    ListingStatus = "draft"
	ListingPending  ListingStatus = "pending"
	ListingLive     ListingStatus = "live"
	ListingRejected ListingStatus = "rejected"
)

const (
	CategoryHandicrafts = "handicrafts"
	CategoryFood        = "food"
	CategoryTextiles    = "textiles"
	CategoryPottery     = "pottery"
	CategoryJewelry     = "jewelry"
	CategoryOther       = "other"
)

var Categories = []string{
	CategoryHandicrafts, CategoryFood, CategoryTextiles,
	CategoryPottery, CategoryJewelry, CategoryOther,
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

const (
	RoleBuyer  = "BUYER"
	RoleSeller = "SELLER"
	RoleAdmin  = "ADMIN"
)

// Actor is the authenticated principal supplied by the external identity
// provider; the core trusts it and enforces domain invariants itself.
type Actor struct {
	ID   string
	Role string
}
