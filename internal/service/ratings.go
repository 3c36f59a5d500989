package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/foodadmin/internal/latency"
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
	"github.com/chrisdamba/foodadmin/internal/repositories"
)

type RatingFilter struct {
	DriverID   string
	CustomerID string
	OrderID    string
	MinRating  *float64
	MaxRating  *float64
	Hidden     *bool
	Search     string
	Dates      query.DateRange
}

// RecentRating is the display projection of a rating in statistics.
type RecentRating struct {
	ID           string    `json:"id"`
	DriverName   string    `json:"driver_name"`
	CustomerName string    `json:"customer_name"`
	Rating       float64   `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type SubRatingAverages struct {
	Punctuality    float64 `json:"punctuality"`
	Communication  float64 `json:"communication"`
	ServiceQuality float64 `json:"service_quality"`
}

type RatingStatistics struct {
	TotalRatings  int               `json:"total_ratings"`
	AverageRating float64           `json:"average_rating"`
	Distribution  map[string]int    `json:"distribution"`
	SubRatings    SubRatingAverages `json:"sub_ratings"`
	TopDrivers    []query.GroupStat `json:"top_drivers"`
	BottomDrivers []query.GroupStat `json:"bottom_drivers"`
	Recent        []RecentRating    `json:"recent"`
	HiddenCount   int               `json:"hidden_count"`
}

// DriverSummary is the rating profile of a single driver.
type DriverSummary struct {
	Driver        models.DriverSnapshot `json:"driver"`
	TotalRatings  int                   `json:"total_ratings"`
	AverageRating float64               `json:"average_rating"`
	Distribution  map[string]int        `json:"distribution"`
	SubRatings    SubRatingAverages     `json:"sub_ratings"`
	Recent        []RecentRating        `json:"recent"`
}

var ratingSortKeys = map[string]query.Compare[models.DriverRating]{
	"created_at": query.ByTime(func(r models.DriverRating) time.Time { return r.CreatedAt }),
	"rating":     query.ByOrdered(func(r models.DriverRating) float64 { return r.Rating }),
}

type RatingService struct {
	base
	ratings repositories.RatingRepository
}

func NewRatingService(ratings repositories.RatingRepository, opts Options) *RatingService {
	return &RatingService{
		base:    newBase(opts, "ratings"),
		ratings: ratings,
	}
}

// visibleRatings reads the store with soft-deleted ratings removed. Every read
// path goes through here.
func (s *RatingService) visibleRatings(ctx context.Context) ([]models.DriverRating, error) {
	all, err := s.ratings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return query.Filter(all, func(r models.DriverRating) bool { return !r.IsDeleted }), nil
}

func (s *RatingService) predicates(f RatingFilter, withHidden bool) ([]query.Predicate[models.DriverRating], error) {
	if f.MinRating != nil && f.MaxRating != nil && *f.MinRating > *f.MaxRating {
		return nil, models.Invalid("min rating %.1f is above max rating %.1f", *f.MinRating, *f.MaxRating)
	}
	dates, err := query.TimeRange(func(r models.DriverRating) time.Time { return r.CreatedAt }, f.Dates, s.loc)
	if err != nil {
		return nil, err
	}
	preds := []query.Predicate[models.DriverRating]{
		query.Equal(func(r models.DriverRating) string { return r.Driver.ID }, f.DriverID),
		query.Equal(func(r models.DriverRating) string { return r.Customer.ID }, f.CustomerID),
		query.Equal(func(r models.DriverRating) string { return r.Order.ID }, f.OrderID),
		query.Range(func(r models.DriverRating) float64 { return r.Rating }, f.MinRating, f.MaxRating),
		query.ContainsFold(func(r models.DriverRating) []string {
			return []string{r.Driver.Name, r.Customer.Name, r.Order.OrderNumber, r.Comment}
		}, f.Search),
		dates,
	}
	if withHidden {
		preds = append(preds, query.Flag(func(r models.DriverRating) bool { return r.IsHidden }, f.Hidden))
	}
	return preds, nil
}

func (s *RatingService) List(ctx context.Context, f RatingFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.DriverRating], error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (query.Page[models.DriverRating], error) {
		preds, err := s.predicates(f, true)
		if err != nil {
			return query.Page[models.DriverRating]{}, err
		}
		ratings, err := s.visibleRatings(ctx)
		if err != nil {
			return query.Page[models.DriverRating]{}, err
		}
		return query.List[models.DriverRating]{
			Predicates:   preds,
			Sort:         sort,
			SortKeys:     ratingSortKeys,
			Page:         page,
			DefaultLimit: defaultRatingLimit,
		}.Run(ratings)
	})
}

// Get returns a rating by id. Soft-deleted ratings are reported as not found.
func (s *RatingService) Get(ctx context.Context, id string) (models.DriverRating, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.DriverRating, error) {
		r, err := s.ratings.Get(ctx, id)
		if err != nil {
			return models.DriverRating{}, err
		}
		if r.IsDeleted {
			return models.DriverRating{}, models.NotFound("rating", id)
		}
		return r, nil
	})
}

// Hide sets or clears the moderation flag.
func (s *RatingService) Hide(ctx context.Context, id string, hidden bool) (models.DriverRating, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.DriverRating, error) {
		r, err := s.ratings.Update(ctx, id, func(r *models.DriverRating) error {
			if r.IsDeleted {
				return models.NotFound("rating", id)
			}
			r.IsHidden = hidden
			r.UpdatedAt = s.now()
			return nil
		})
		if err != nil {
			return models.DriverRating{}, err
		}
		s.log.Info("rating visibility changed", "rating_id", id, "hidden", hidden)
		return r, nil
	})
}

// Delete soft-deletes a rating. The record stays in the store.
func (s *RatingService) Delete(ctx context.Context, id string) (models.DriverRating, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.DriverRating, error) {
		r, err := s.ratings.Update(ctx, id, func(r *models.DriverRating) error {
			if r.IsDeleted {
				return models.NotFound("rating", id)
			}
			r.IsDeleted = true
			r.UpdatedAt = s.now()
			return nil
		})
		if err != nil {
			return models.DriverRating{}, err
		}
		s.log.Info("rating deleted", "rating_id", id)
		return r, nil
	})
}

// Statistics aggregates the filtered ratings. Hidden ratings never count,
// whatever f.Hidden says; HiddenCount reports how many were left out.
func (s *RatingService) Statistics(ctx context.Context, f RatingFilter) (RatingStatistics, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (RatingStatistics, error) {
		preds, err := s.predicates(f, false)
		if err != nil {
			return RatingStatistics{}, err
		}
		ratings, err := s.visibleRatings(ctx)
		if err != nil {
			return RatingStatistics{}, err
		}
		matched := query.Filter(ratings, preds...)
		counted := query.Filter(matched, models.DriverRating.Countable)

		groups := query.Rollup(counted,
			func(r models.DriverRating) (string, string) { return r.Driver.ID, r.Driver.Name },
			func(r models.DriverRating) float64 { return r.Rating },
		)
		return RatingStatistics{
			TotalRatings:  len(counted),
			AverageRating: query.Round1(query.Average(ratingValues(counted))),
			Distribution:  query.Distribution(ratingValues(counted)),
			SubRatings:    subRatingAverages(counted),
			TopDrivers:    roundGroups(query.TopN(groups, defaultTopN)),
			BottomDrivers: roundGroups(query.BottomN(groups, defaultTopN, query.DefaultMinSamples)),
			Recent:        recentRatings(counted, defaultRecentK),
			HiddenCount:   len(matched) - len(counted),
		}, nil
	})
}

// DriverSummary aggregates the countable ratings of one driver. A driver with
// none fails with ErrNoDataForOwner.
func (s *RatingService) DriverSummary(ctx context.Context, driverID string) (DriverSummary, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (DriverSummary, error) {
		if driverID == "" {
			return DriverSummary{}, models.Invalid("driver id is required")
		}
		ratings, err := s.visibleRatings(ctx)
		if err != nil {
			return DriverSummary{}, err
		}
		own := query.Filter(ratings,
			query.Equal(func(r models.DriverRating) string { return r.Driver.ID }, driverID),
			models.DriverRating.Countable,
		)
		if len(own) == 0 {
			return DriverSummary{}, fmt.Errorf("driver %q: %w", driverID, models.ErrNoDataForOwner)
		}
		latest := query.Recent(own, 1, func(r models.DriverRating) time.Time { return r.CreatedAt })[0]
		return DriverSummary{
			Driver:        latest.Driver,
			TotalRatings:  len(own),
			AverageRating: query.Round1(query.Average(ratingValues(own))),
			Distribution:  query.Distribution(ratingValues(own)),
			SubRatings:    subRatingAverages(own),
			Recent:        recentRatings(own, defaultRecentK),
		}, nil
	})
}

func ratingValues(ratings []models.DriverRating) []float64 {
	values := make([]float64, len(ratings))
	for i, r := range ratings {
		values[i] = r.Rating
	}
	return values
}

// subRatingAverages averages each optional sub-rating over the ratings that
// carry it.
func subRatingAverages(ratings []models.DriverRating) SubRatingAverages {
	var punctuality, communication, quality []float64
	for _, r := range ratings {
		if r.Punctuality != nil {
			punctuality = append(punctuality, *r.Punctuality)
		}
		if r.Communication != nil {
			communication = append(communication, *r.Communication)
		}
		if r.ServiceQuality != nil {
			quality = append(quality, *r.ServiceQuality)
		}
	}
	return SubRatingAverages{
		Punctuality:    query.Round1(query.Average(punctuality)),
		Communication:  query.Round1(query.Average(communication)),
		ServiceQuality: query.Round1(query.Average(quality)),
	}
}

func roundGroups(groups []query.GroupStat) []query.GroupStat {
	out := make([]query.GroupStat, len(groups))
	for i, g := range groups {
		g.Average = query.Round1(g.Average)
		out[i] = g
	}
	return out
}

func recentRatings(ratings []models.DriverRating, k int) []RecentRating {
	recent := query.Recent(ratings, k, func(r models.DriverRating) time.Time { return r.CreatedAt })
	out := make([]RecentRating, len(recent))
	for i, r := range recent {
		out[i] = RecentRating{
			ID:           r.ID,
			DriverName:   r.Driver.Name,
			CustomerName: r.Customer.Name,
			Rating:       r.Rating,
			Comment:      r.Comment,
			CreatedAt:    r.CreatedAt,
		}
	}
	return out
}
