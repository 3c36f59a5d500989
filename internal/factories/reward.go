package factories

import (
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
)

var rewardNames = map[models.RewardType][]string{
	models.RewardDiscountCoupon: {"Welcome Discount", "Loyalty Coupon", "Lunch Deal"},
	models.RewardFreeDelivery:   {"Free Delivery Week", "Free Delivery Friday"},
	models.RewardCashCredit:     {"Apology Credit", "Referral Credit"},
	models.RewardFreeItem:       {"Free Dessert", "Free Drink"},
	models.RewardPoints:         {"Double Points", "Bonus Points"},
	models.RewardCustom:         {"VIP Perk", "Birthday Surprise"},
}

var rewardTypes = []models.RewardType{
	models.RewardDiscountCoupon, models.RewardFreeDelivery, models.RewardCashCredit,
	models.RewardFreeItem, models.RewardPoints, models.RewardCustom,
}

var expiryChoices = []int{7, 14, 30, 60, 90}

var revokeReasons = []string{
	"Issued by mistake",
	"Account flagged for abuse",
	"Duplicate assignment",
}

// CreateRewards builds n rewards cycling through every reward type.
func (f *Factory) CreateRewards(n int, adminID string) []models.Reward {
	if n <= 0 {
		return []models.Reward{}
	}
	out := make([]models.Reward, n)
	for i := range out {
		out[i] = f.createReward(rewardTypes[i%len(rewardTypes)], adminID)
	}
	return out
}

func (f *Factory) createReward(t models.RewardType, adminID string) models.Reward {
	created := f.timeBefore(7*day, 365*day)
	r := models.Reward{
		ID:         f.id(),
		AdminID:    adminID,
		Name:       f.pick(rewardNames[t]),
		Type:       t,
		UsageLimit: f.fake.IntBetween(1, 5),
		IsActive:   f.chance(85),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	switch t {
	case models.RewardDiscountCoupon:
		r.Value = float64(5 * f.fake.IntBetween(1, 10))
		r.Description = "Percentage off the order subtotal"
	case models.RewardCashCredit:
		r.Value = float64(f.fake.IntBetween(5, 25))
		r.Description = "Wallet credit"
	case models.RewardPoints:
		r.Value = float64(100 * f.fake.IntBetween(1, 10))
		r.Description = "Loyalty points"
	}
	if f.chance(70) {
		days := expiryChoices[f.fake.IntBetween(0, len(expiryChoices)-1)]
		r.ExpiryDays = &days
	}
	return r
}

// CreateUserRewards assigns rewards to customers. Assignments whose expiry
// has passed are either already marked expired or left active for the expiry
// sweep to pick up.
func (f *Factory) CreateUserRewards(n int, adminID string, rewards []models.Reward, customers []models.User) []models.UserReward {
	if n <= 0 || len(rewards) == 0 || len(customers) == 0 {
		return []models.UserReward{}
	}
	out := make([]models.UserReward, n)
	for i := range out {
		reward := rewards[f.fake.IntBetween(0, len(rewards)-1)]
		customer := customers[f.fake.IntBetween(0, len(customers)-1)]
		out[i] = f.createUserReward(adminID, reward, customer)
	}
	return out
}

func (f *Factory) createUserReward(adminID string, reward models.Reward, customer models.User) models.UserReward {
	assignedAt := f.timeBefore(time.Hour, 90*day)
	u := models.UserReward{
		ID:         f.id(),
		Reward:     reward.Snapshot(),
		User:       customer.Snapshot(),
		AdminID:    adminID,
		AssignedAt: assignedAt,
		Status:     models.UserRewardActive,
	}
	if reward.ExpiryDays != nil {
		expiresAt := assignedAt.AddDate(0, 0, *reward.ExpiryDays)
		u.ExpiresAt = &expiresAt
	}

	switch r := f.fake.IntBetween(1, 100); {
	case r <= 20:
		usedAt := f.fake.Time().TimeBetween(assignedAt, f.now)
		u.Status = models.UserRewardUsed
		u.UsedCount = reward.UsageLimit
		u.UsedAt = &usedAt
	case r <= 30:
		u.Status = models.UserRewardRevoked
		u.Notes = f.pick(revokeReasons)
	default:
		if u.IsExpired(f.now) && f.chance(50) {
			u.Status = models.UserRewardExpired
		} else if reward.UsageLimit > 1 {
			u.UsedCount = f.fake.IntBetween(0, reward.UsageLimit-1)
		}
	}
	return u
}
