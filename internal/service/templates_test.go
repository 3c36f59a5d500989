package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{"none", []string{"Hello", "World"}, nil},
		{"titleAndMessage", []string{"Hi {{name}}", "Use {{code}} by {{date}}"}, []string{"name", "code", "date"}},
		{"repeatedOnce", []string{"{{name}} {{name}}", "{{name}}"}, []string{"name"}},
		{"malformedIgnored", []string{"{{ spaced }} {name} {{ok}}"}, []string{"ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Placeholders(tt.texts...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Placeholders() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemplateLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(storeWith[models.NotificationTemplate](t, "template"), testOptions())

	created, err := svc.Create(ctx, TemplateInput{
		Name:    ptr("Promo"),
		Title:   ptr("Hi {{name}}"),
		Message: ptr("Use {{code}} today"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !reflect.DeepEqual(created.Variables, []string{"name", "code"}) {
		t.Errorf("Variables = %v", created.Variables)
	}
	if created.Type != models.NotificationTypeInfo || created.TargetAudience != models.AudienceAll || created.AdminID != "admin-test" {
		t.Errorf("Create() defaults = %+v", created)
	}

	title, message, err := svc.Render(ctx, created.ID, map[string]string{"name": "Ana", "code": "SAVE10"})
	if err != nil {
		t.Fatal(err)
	}
	if title != "Hi Ana" || message != "Use SAVE10 today" {
		t.Errorf("Render() = %q, %q", title, message)
	}
	if _, _, err := svc.Render(ctx, created.ID, map[string]string{"name": "Ana"}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Render(missing code) error = %v, want validation", err)
	}

	updated, err := svc.Update(ctx, created.ID, TemplateInput{Message: ptr("Thanks {{name}}")})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(updated.Variables, []string{"name"}) || updated.Name != "Promo" {
		t.Errorf("Update() = %+v", updated)
	}
	if _, err := svc.Update(ctx, created.ID, TemplateInput{Name: ptr(" ")}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Update(blank name) error = %v", err)
	}
	got, _ := svc.Get(ctx, created.ID)
	if got.Name != "Promo" {
		t.Errorf("failed update changed name to %q", got.Name)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Render(ctx, created.ID, nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Render(deleted) error = %v", err)
	}
}

func TestTemplateCreateRejects(t *testing.T) {
	tests := []struct {
		name string
		in   TemplateInput
	}{
		{"noName", TemplateInput{Title: ptr("t"), Message: ptr("m")}},
		{"noMessage", TemplateInput{Name: ptr("n"), Title: ptr("t")}},
		{"badType", TemplateInput{Name: ptr("n"), Title: ptr("t"), Message: ptr("m"), Type: ptr(models.NotificationType("loud"))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTemplateService(storeWith[models.NotificationTemplate](t, "template"), testOptions())
			if _, err := svc.Create(context.Background(), tt.in); !errors.Is(err, models.ErrValidation) {
				t.Errorf("Create() error = %v, want validation", err)
			}
		})
	}
}

func TestTemplateList(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(storeWith[models.NotificationTemplate](t, "template"), testOptions())
	for _, in := range []TemplateInput{
		{Name: ptr("Welcome"), Title: ptr("Welcome"), Message: ptr("Hello")},
		{Name: ptr("Alert"), Title: ptr("Heads up"), Message: ptr("Storm"), Type: ptr(models.NotificationTypeWarning), TargetAudience: ptr(models.AudienceDrivers)},
		{Name: ptr("Bonus"), Title: ptr("Bonus"), Message: ptr("Extra pay"), TargetAudience: ptr(models.AudienceDrivers)},
	} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	page, err := svc.List(ctx, TemplateFilter{Audience: models.AudienceDrivers}, query.SortSpec{Field: "name"}, query.PageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 || page.Items[0].Name != "Alert" || page.Items[1].Name != "Bonus" {
		t.Errorf("List(drivers by name) = %+v", page.Items)
	}
	page, _ = svc.List(ctx, TemplateFilter{Search: "storm"}, query.SortSpec{}, query.PageRequest{})
	if page.Pagination.Total != 1 {
		t.Errorf("List(search storm) total = %d, want 1", page.Pagination.Total)
	}
}
