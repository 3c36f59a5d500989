package service

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/chrisdamba/foodadmin/internal/latency"
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
	"github.com/chrisdamba/foodadmin/internal/repositories"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

type TemplateFilter struct {
	Type     models.NotificationType
	Audience models.Audience
	Search   string
}

// TemplateInput carries the writable template fields. Nil fields are left
// unchanged by Update.
type TemplateInput struct {
	Name           *string
	Title          *string
	Message        *string
	Type           *models.NotificationType
	TargetAudience *models.Audience
	Variables      []string
}

var templateSortKeys = map[string]query.Compare[models.NotificationTemplate]{
	"name":       query.ByOrdered(func(t models.NotificationTemplate) string { return t.Name }),
	"created_at": query.ByTime(func(t models.NotificationTemplate) time.Time { return t.CreatedAt }),
}

type TemplateService struct {
	base
	templates repositories.TemplateRepository
}

func NewTemplateService(templates repositories.TemplateRepository, opts Options) *TemplateService {
	return &TemplateService{
		base:      newBase(opts, "templates"),
		templates: templates,
	}
}

func (s *TemplateService) List(ctx context.Context, f TemplateFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.NotificationTemplate], error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (query.Page[models.NotificationTemplate], error) {
		all, err := s.templates.List(ctx)
		if err != nil {
			return query.Page[models.NotificationTemplate]{}, fmt.Errorf("failed to list templates: %w", err)
		}
		return query.List[models.NotificationTemplate]{
			Predicates: []query.Predicate[models.NotificationTemplate]{
				query.Equal(func(t models.NotificationTemplate) models.NotificationType { return t.Type }, f.Type),
				query.Equal(func(t models.NotificationTemplate) models.Audience { return t.TargetAudience }, f.Audience),
				query.ContainsFold(func(t models.NotificationTemplate) []string {
					return []string{t.Name, t.Title, t.Message}
				}, f.Search),
			},
			Sort:         sort,
			SortKeys:     templateSortKeys,
			Page:         page,
			DefaultLimit: defaultTemplateLimit,
		}.Run(all)
	})
}

func (s *TemplateService) Get(ctx context.Context, id string) (models.NotificationTemplate, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.NotificationTemplate, error) {
		return s.templates.Get(ctx, id)
	})
}

func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (models.NotificationTemplate, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.NotificationTemplate, error) {
		now := s.now()
		t := models.NotificationTemplate{
			ID:             s.newID(),
			AdminID:        s.adminID,
			Type:           models.NotificationTypeInfo,
			TargetAudience: models.AudienceAll,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		in.apply(&t)
		if err := t.Validate(); err != nil {
			return models.NotificationTemplate{}, err
		}
		if err := s.templates.Insert(ctx, t); err != nil {
			return models.NotificationTemplate{}, err
		}
		s.log.Info("template created", "template_id", t.ID, "name", t.Name)
		return t, nil
	})
}

func (s *TemplateService) Update(ctx context.Context, id string, in TemplateInput) (models.NotificationTemplate, error) {
	return latency.Do(ctx, s.latency, func(ctx context.Context) (models.NotificationTemplate, error) {
		t, err := s.templates.Update(ctx, id, func(t *models.NotificationTemplate) error {
			in.apply(t)
			if err := t.Validate(); err != nil {
				return err
			}
			t.UpdatedAt = s.now()
			return nil
		})
		if err != nil {
			return models.NotificationTemplate{}, err
		}
		s.log.Info("template updated", "template_id", id)
		return t, nil
	})
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	return latency.Exec(ctx, s.latency, func(ctx context.Context) error {
		if err := s.templates.Delete(ctx, id); err != nil {
			return err
		}
		s.log.Info("template deleted", "template_id", id)
		return nil
	})
}

// Render fills a template's placeholders. Every declared variable must have
// a value.
func (s *TemplateService) Render(ctx context.Context, id string, values map[string]string) (title, message string, err error) {
	t, err := latency.Do(ctx, s.latency, func(ctx context.Context) (models.NotificationTemplate, error) {
		return s.templates.Get(ctx, id)
	})
	if err != nil {
		return "", "", err
	}
	for _, v := range t.Variables {
		if _, ok := values[v]; !ok {
			return "", "", models.Invalid("missing value for template variable %q", v)
		}
	}
	title, message = t.Render(values)
	return title, message, nil
}

func (in TemplateInput) apply(t *models.NotificationTemplate) {
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Message != nil {
		t.Message = *in.Message
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.TargetAudience != nil {
		t.TargetAudience = *in.TargetAudience
	}
	if in.Variables != nil {
		t.Variables = slices.Clone(in.Variables)
	} else if in.Title != nil || in.Message != nil {
		t.Variables = Placeholders(t.Title, t.Message)
	}
}

// Placeholders lists the distinct {{name}} variables used in the given texts,
// in order of first use.
func Placeholders(texts ...string) []string {
	var vars []string
	for _, text := range texts {
		for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
			if !slices.Contains(vars, m[1]) {
				vars = append(vars, m[1])
			}
		}
	}
	return vars
}
