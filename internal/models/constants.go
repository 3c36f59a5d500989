package models

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusPickedUp  OrderStatus = "picked_up"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists the order states in lifecycle order, cancelled last.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusPickedUp,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOnline PaymentMethod = "online"
)

type NotificationType string

const (
	NotificationTypeInfo      NotificationType = "info"
	NotificationTypeWarning   NotificationType = "warning"
	NotificationTypeSuccess   NotificationType = "success"
	NotificationTypeError     NotificationType = "error"
	NotificationTypePromotion NotificationType = "promotion"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// Rank orders priorities for sorting, low first.
func (p NotificationPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

type Audience string

const (
	AudienceAll         Audience = "all"
	AudienceCustomers   Audience = "customers"
	AudienceDrivers     Audience = "drivers"
	AudienceRestaurants Audience = "restaurants"
	AudienceSpecific    Audience = "specific"
)

type NotificationStatus string

const (
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusScheduled NotificationStatus = "scheduled"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusDraft     NotificationStatus = "draft"
)

type RewardType string

const (
	RewardDiscountCoupon RewardType = "discount_coupon"
	RewardFreeDelivery   RewardType = "free_delivery"
	RewardCashCredit     RewardType = "cash_credit"
	RewardFreeItem       RewardType = "free_item"
	RewardPoints         RewardType = "points"
	RewardCustom         RewardType = "custom"
)

type UserRewardStatus string

const (
	UserRewardActive  UserRewardStatus = "active"
	UserRewardUsed    UserRewardStatus = "used"
	UserRewardExpired UserRewardStatus = "expired"
	UserRewardRevoked UserRewardStatus = "revoked"
)

type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleDriver     UserRole = "driver"
	RoleRestaurant UserRole = "restaurant"
)

func validOrderStatus(s OrderStatus) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func validNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeWarning, NotificationTypeSuccess,
		NotificationTypeError, NotificationTypePromotion:
		return true
	}
	return false
}

func validPriority(p NotificationPriority) bool {
	return p.Rank() > 0
}

func validAudience(a Audience) bool {
	switch a {
	case AudienceAll, AudienceCustomers, AudienceDrivers, AudienceRestaurants, AudienceSpecific:
		return true
	}
	return false
}

func validRewardType(t RewardType) bool {
	switch t {
	case RewardDiscountCoupon, RewardFreeDelivery, RewardCashCredit,
		RewardFreeItem, RewardPoints, RewardCustom:
		return true
	}
	return false
}
