package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/foodadmin/internal/latency"
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
	"github.com/chrisdamba/foodadmin/internal/repositories"
)

// expiringWindow is how far ahead statistics look for expiring assignments.
const expiringWindow = 7 * 24 * time.Hour

type RewardFilter struct {
	Type   models.RewardType
	Active *bool
	Search string
}

type AssignmentFilter struct {
	Status   models.UserRewardStatus
	UserID   string
	RewardID string
	Search   string
	Dates    query.DateRange
}

// RewardInput carries the writable reward fields. Nil fields are left
// unchanged by Update; Create applies defaults for them.
type RewardInput struct {
	Name        *string
	Description *string
	Type        *models.RewardType
	Value       *float64
	ExpiryDays  *int
	NoExpiry    bool
	UsageLimit  *int
	IsActive    *bool
}

// AssignCriteria selects users from the directory. Zero fields do not
// constrain.
type AssignCriteria struct {
	Audience         models.Audience
	MinOrders        int
	MinSpent         float64
	JoinedAfter      *time.Time
	ActiveWithinDays int
	OnlyActive       bool
}

type AssignResult struct {
	AssignedCount int                 `json:"assigned_count"`
	Assignments   []models.UserReward `json:"assignments"`
}

type RewardStatistics struct {
	TotalRewards        int                             `json:"total_rewards"`
	ActiveRewards       int                             `json:"active_rewards"`
	ByType              map[models.RewardType]int       `json:"by_type"`
	TotalAssignments    int                             `json:"total_assignments"`
	AssignmentsByStatus map[models.UserRewardStatus]int `json:"assignments_by_status"`
	UsageRate           float64                         `json:"usage_rate"`
	ExpiringSoon        int                             `json:"expiring_soon"`
}

var rewardSortKeys = map[string]query.Compare[models.Reward]{
	"created_at": query.ByTime(func(r models.Reward) time.Time { return r.CreatedAt }),
	"name":       query.ByOrdered(func(r models.Reward) string { return r.Name }),
	"value":      query.ByOrdered(func(r models.Reward) float64 { return r.Value }),
}

var assignmentSortKeys = map[string]query.Compare[models.UserReward]{
	"assigned_at": query.ByTime(func(u models.UserReward) time.Time { return u.AssignedAt }),
	"expires_at": query.ByTime(func(u models.UserReward) time.Time {
		if u.ExpiresAt == nil {
			return time.Time{}
		}
		return *u.ExpiresAt
	}),
}

type RewardService struct {
	base
	rewards     repositories.RewardRepository
	userRewards repositories.UserRewardRepository
	users       repositories.UserRepository
}

func NewRewardService(rewards repositories.RewardRepository, userRewards repositories.UserRewardRepository, users repositories.UserRepository, opts Options) *RewardService {
	return &RewardService{
		base:        newBase(opts, "rewards"),
		rewards:     rewards,
		userRewards: userRewards,
		users:       users,
	}
}

func (s *RewardService) List(ctx context.Context, f RewardFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.Reward], error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (query.Page[models.Reward], error) {
		all, err := s.rewards.List(ctx)
		if err != nil {
			return query.Page[models.Reward]{}, fmt.Errorf("failed to list rewards: %w", err)
		}
		return query.List[models.Reward]{
			Predicates: []query.Predicate[models.Reward]{
				query.Equal(func(r models.Reward) models.RewardType { return r.Type }, f.Type),
				query.Flag(func(r models.Reward) bool { return r.IsActive }, f.Active),
				query.ContainsFold(func(r models.Reward) []string { return []string{r.Name, r.Description} }, f.Search),
			},
			Sort:         sort,
			SortKeys:     rewardSortKeys,
			Page:         page,
			DefaultLimit: defaultRewardLimit,
		}.Run(all)
	})
}

func (s *RewardService) Get(ctx context.Context, id string) (models.Reward, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.Reward, error) {
		return s.rewards.Get(ctx, id)
	})
}

func (s *RewardService) Create(ctx context.Context, in RewardInput) (models.Reward, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.Reward, error) {
		now := s.now()
		r := models.Reward{
			ID:         s.newID(),
			AdminID:    s.adminID,
			UsageLimit: 1,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		in.apply(&r)
		if err := r.Validate(); err != nil {
			return models.Reward{}, err
		}
		if err := s.rewards.Insert(ctx, r); err != nil {
			return models.Reward{}, err
		}
		s.log.Info("reward created", "reward_id", r.ID, "type", r.Type)
		return r, nil
	})
}

func (s *RewardService) Update(ctx context.Context, id string, in RewardInput) (models.Reward, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.Reward, error) {
		r, err := s.rewards.Update(ctx, id, func(r *models.Reward) error {
			in.apply(r)
			if err := r.Validate(); err != nil {
				return err
			}
			r.UpdatedAt = s.now()
			return nil
		})
		if err != nil {
			return models.Reward{}, err
		}
		s.log.Info("reward updated", "reward_id", id)
		return r, nil
	})
}

// Delete removes a reward. Existing assignments keep their snapshot of it.
func (s *RewardService) Delete(ctx context.Context, id string) error {
	return latency.Exec(ctx, s.latency, func(ctx context.Context) error {
		if err := s.rewards.Delete(ctx, id); err != nil {
			return err
		}
		s.log.Info("reward deleted", "reward_id", id)
		return nil
	})
}

func (s *RewardService) Statistics(ctx context.Context) (RewardStatistics, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (RewardStatistics, error) {
		rewards, err := s.rewards.List(ctx)
		if err != nil {
			return RewardStatistics{}, fmt.Errorf("failed to list rewards: %w", err)
		}
		assignments, err := s.userRewards.List(ctx)
		if err != nil {
			return RewardStatistics{}, fmt.Errorf("failed to list user rewards: %w", err)
		}

		now := s.now()
		stats := RewardStatistics{
			TotalRewards:        len(rewards),
			ActiveRewards:       len(query.Filter(rewards, func(r models.Reward) bool { return r.IsActive })),
			ByType:              query.CountBy(rewards, func(r models.Reward) models.RewardType { return r.Type }),
			TotalAssignments:    len(assignments),
			AssignmentsByStatus: query.CountBy(assignments, func(u models.UserReward) models.UserRewardStatus { return u.Status }),
		}
		stats.UsageRate = query.Round1(100 * query.Ratio(stats.AssignmentsByStatus[models.UserRewardUsed], len(assignments)))
		stats.ExpiringSoon = len(query.Filter(assignments, func(u models.UserReward) bool {
			return u.Status == models.UserRewardActive && !u.IsExpired(now) && u.IsExpired(now.Add(expiringWindow))
		}))
		return stats, nil
	})
}

func (s *RewardService) ListAssignments(ctx context.Context, f AssignmentFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.UserReward], error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (query.Page[models.UserReward], error) {
		dates, err := query.TimeRange(func(u models.UserReward) time.Time { return u.AssignedAt }, f.Dates, s.loc)
		if err != nil {
			return query.Page[models.UserReward]{}, err
		}
		all, err := s.userRewards.List(ctx)
		if err != nil {
			return query.Page[models.UserReward]{}, fmt.Errorf("failed to list user rewards: %w", err)
		}
		return query.List[models.UserReward]{
			Predicates: []query.Predicate[models.UserReward]{
				query.Equal(func(u models.UserReward) models.UserRewardStatus { return u.Status }, f.Status),
				query.Equal(func(u models.UserReward) string { return u.User.ID }, f.UserID),
				query.Equal(func(u models.UserReward) string { return u.Reward.ID }, f.RewardID),
				query.ContainsFold(func(u models.UserReward) []string {
					return []string{u.User.Name, u.User.Email, u.Reward.Name}
				}, f.Search),
				dates,
			},
			Sort:         sort,
			SortKeys:     assignmentSortKeys,
			Page:         page,
			DefaultLimit: defaultAssignmentLimit,
		}.Run(all)
	})
}

func (s *RewardService) GetAssignment(ctx context.Context, id string) (models.UserReward, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.UserReward, error) {
		return s.userRewards.Get(ctx, id)
	})
}

// Assign gives the reward to every listed user. Either all users receive an
// assignment or, on any error, none do.
func (s *RewardService) Assign(ctx context.Context, rewardID string, userIDs []string, notes string) (AssignResult, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (AssignResult, error) {
		ids := dedupe(userIDs)
		if len(ids) == 0 {
			return AssignResult{}, models.Invalid("at least one user id is required")
		}
		users := make([]models.User, 0, len(ids))
		for _, id := range ids {
			u, err := s.users.Get(ctx, id)
			if err != nil {
				return AssignResult{}, err
			}
			users = append(users, u)
		}
		return s.assign(ctx, rewardID, users, notes)
	})
}

// AssignByCriteria resolves the criteria against the user directory, in
// directory order, and assigns the reward to every match.
func (s *RewardService) AssignByCriteria(ctx context.Context, rewardID string, c AssignCriteria, notes string) (AssignResult, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (AssignResult, error) {
		preds, err := s.criteriaPredicates(c)
		if err != nil {
			return AssignResult{}, err
		}
		all, err := s.users.List(ctx)
		if err != nil {
			return AssignResult{}, fmt.Errorf("failed to list users: %w", err)
		}
		matched := query.Filter(all, preds...)
		if len(matched) == 0 {
			return AssignResult{}, models.Invalid("no users match the assignment criteria")
		}
		return s.assign(ctx, rewardID, matched, notes)
	})
}

func (s *RewardService) criteriaPredicates(c AssignCriteria) ([]query.Predicate[models.User], error) {
	if c.Audience == models.AudienceSpecific {
		return nil, models.Invalid("criteria cannot target audience %q", c.Audience)
	}
	if c.MinOrders < 0 || c.MinSpent < 0 || c.ActiveWithinDays < 0 {
		return nil, models.Invalid("criteria thresholds must not be negative")
	}
	preds := []query.Predicate[models.User]{audiencePredicate(c.Audience)}
	if c.MinOrders > 0 {
		preds = append(preds, func(u models.User) bool { return u.TotalOrders >= c.MinOrders })
	}
	if c.MinSpent > 0 {
		preds = append(preds, func(u models.User) bool { return u.TotalSpent >= c.MinSpent })
	}
	if c.JoinedAfter != nil {
		after := *c.JoinedAfter
		preds = append(preds, func(u models.User) bool { return u.CreatedAt.After(after) })
	}
	if c.ActiveWithinDays > 0 {
		since := s.now().AddDate(0, 0, -c.ActiveWithinDays)
		preds = append(preds, func(u models.User) bool { return !u.LastOrderAt.Before(since) })
	}
	if c.OnlyActive {
		preds = append(preds, func(u models.User) bool { return u.IsActive })
	}
	return preds, nil
}

func (s *RewardService) assign(ctx context.Context, rewardID string, users []models.User, notes string) (AssignResult, error) {
	reward, err := s.rewards.Get(ctx, rewardID)
	if err != nil {
		return AssignResult{}, err
	}
	if !reward.IsActive {
		return AssignResult{}, models.Invalid("reward %q is not active", rewardID)
	}

	assignedAt := s.now()
	var expiresAt *time.Time
	if reward.ExpiryDays != nil {
		at := assignedAt.AddDate(0, 0, *reward.ExpiryDays)
		expiresAt = &at
	}

	assignments := make([]models.UserReward, len(users))
	for i, u := range users {
		assignments[i] = models.UserReward{
			ID:         s.newID(),
			Reward:     reward.Snapshot(),
			User:       u.Snapshot(),
			AdminID:    s.adminID,
			AssignedAt: assignedAt,
			ExpiresAt:  copyTime(expiresAt),
			Status:     models.UserRewardActive,
			Notes:      notes,
		}
	}
	if err := s.userRewards.Insert(ctx, assignments...); err != nil {
		return AssignResult{}, fmt.Errorf("failed to assign reward %s: %w", rewardID, err)
	}
	s.log.Info("reward assigned", "reward_id", rewardID, "count", len(assignments))
	return AssignResult{AssignedCount: len(assignments), Assignments: assignments}, nil
}

// Revoke ends an active assignment, recording the reason in its notes.
func (s *RewardService) Revoke(ctx context.Context, id, reason string) (models.UserReward, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.UserReward, error) {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return models.UserReward{}, models.Invalid("a revocation reason is required")
		}
		u, err := s.userRewards.Update(ctx, id, func(u *models.UserReward) error {
			if err := requireActive(*u); err != nil {
				return err
			}
			u.Status = models.UserRewardRevoked
			u.Notes = reason
			return nil
		})
		if err != nil {
			return models.UserReward{}, err
		}
		s.log.Info("user reward revoked", "user_reward_id", id, "reason", reason)
		return u, nil
	})
}

// Extend pushes the expiry of an active assignment forward by days, starting
// from the current expiry or from now when there is none.
func (s *RewardService) Extend(ctx context.Context, id string, days int) (models.UserReward, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.UserReward, error) {
		if days < 1 {
			return models.UserReward{}, models.Invalid("extension must be at least 1 day, got %d", days)
		}
		u, err := s.userRewards.Update(ctx, id, func(u *models.UserReward) error {
			if err := requireActive(*u); err != nil {
				return err
			}
			from := s.now()
			if u.ExpiresAt != nil {
				from = *u.ExpiresAt
			}
			extended := from.AddDate(0, 0, days)
			u.ExpiresAt = &extended
			return nil
		})
		if err != nil {
			return models.UserReward{}, err
		}
		s.log.Info("user reward extended", "user_reward_id", id, "days", days, "expires_at", u.ExpiresAt)
		return u, nil
	})
}

// MarkUsed records one redemption. The assignment becomes used once the
// reward's usage limit is reached.
func (s *RewardService) MarkUsed(ctx context.Context, id string) (models.UserReward, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.UserReward, error) {
		now := s.now()
		u, err := s.userRewards.Update(ctx, id, func(u *models.UserReward) error {
			if err := requireActive(*u); err != nil {
				return err
			}
			if u.IsExpired(now) {
				return fmt.Errorf("user reward %s expired at %s: %w", u.ID, u.ExpiresAt.Format(time.RFC3339), models.ErrInvalidTransition)
			}
			u.UsedCount++
			if u.UsedCount >= u.Reward.UsageLimit {
				u.Status = models.UserRewardUsed
				usedAt := now
				u.UsedAt = &usedAt
			}
			return nil
		})
		if err != nil {
			return models.UserReward{}, err
		}
		s.log.Info("user reward used", "user_reward_id", id, "used_count", u.UsedCount, "status", u.Status)
		return u, nil
	})
}

// ExpireDue moves every active assignment whose expiry has passed to expired
// and returns how many changed.
func (s *RewardService) ExpireDue(ctx context.Context) (int, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (int, error) {
		now := s.now()
		all, err := s.userRewards.List(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list user rewards: %w", err)
		}
		due := query.Filter(all, func(u models.UserReward) bool {
			return u.Status == models.UserRewardActive && u.IsExpired(now)
		})

		expired := 0
		for _, candidate := range due {
			_, err := s.userRewards.Update(ctx, candidate.ID, func(u *models.UserReward) error {
				if u.Status != models.UserRewardActive || !u.IsExpired(now) {
					return errSkip
				}
				u.Status = models.UserRewardExpired
				return nil
			})
			switch {
			case err == nil:
				expired++
			case errors.Is(err, errSkip):
			default:
				return expired, fmt.Errorf("failed to expire user reward %s: %w", candidate.ID, err)
			}
		}
		if expired > 0 {
			s.log.Info("user rewards expired", "count", expired)
		}
		return expired, nil
	})
}

var errSkip = errors.New("skip")

func requireActive(u models.UserReward) error {
	if u.Status != models.UserRewardActive {
		return fmt.Errorf("user reward %s is %s: %w", u.ID, u.Status, models.ErrInvalidTransition)
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (in RewardInput) apply(r *models.Reward) {
	if in.Name != nil {
		r.Name = *in.Name
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Type != nil {
		r.Type = *in.Type
	}
	if in.Value != nil {
		r.Value = *in.Value
	}
	if in.NoExpiry {
		r.ExpiryDays = nil
	} else if in.ExpiryDays != nil {
		days := *in.ExpiryDays
		r.ExpiryDays = &days
	}
	if in.UsageLimit != nil {
		r.UsageLimit = *in.UsageLimit
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
}
