package settings

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeSettingsRepo struct {
	values map[string]string
	writes int
}

func (r *fakeSettingsRepo) All(context.Context) ([]Setting, error) {
	result := make([]Setting, 0, len(r.values))
	for key, value := range r.values {
		result = append(result, Setting{Key: key, Value: value})
	}
	return result, nil
}

func (r *fakeSettingsRepo) Get(_ context.Context, key string) (*Setting, error) {
	value, ok := r.values[key]
	if !ok {
		return nil, ErrSettingNotFound
	}
	return &Setting{Key: key, Value: value}, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, settings []Setting) error {
	r.writes++
	for _, setting := range settings {
		r.values[setting.Key] = setting.Value
	}
	return nil
}

func TestPutUpsertsAndReturnsAll(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{"site_name": "Gia phả"}}
	svc := NewService(repo)

	all, err := svc.Put(context.Background(), map[string]string{
		"clan_name":  "  Họ Nguyễn  ",
		"site_name":  "Gia phả họ Nguyễn",
		"contact_01": "0900000000",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if all["clan_name"] != "Họ Nguyễn" || all["site_name"] != "Gia phả họ Nguyễn" || len(all) != 3 {
		t.Fatalf("unexpected settings %v", all)
	}
}

func TestPutRejectsInvalidKeysAtomically(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{}}
	svc := NewService(repo)

	tests := []map[string]string{
		{"Site": "x"},
		{"site-name": "x"},
		{"": "x"},
		{strings.Repeat("a", 65): "x"},
		{"ok_key": "fine", "bad key": "x"},
	}
	for _, values := range tests {
		if _, err := svc.Put(context.Background(), values); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %v, got %v", values, err)
		}
	}
	if repo.writes != 0 {
		t.Fatalf("expected no writes, got %d", repo.writes)
	}
}

func TestPutRejectsLongValue(t *testing.T) {
	svc := NewService(&fakeSettingsRepo{values: map[string]string{}})
	_, err := svc.Put(context.Background(), map[string]string{"introduction": strings.Repeat("a", maxValueLength+1)})
	if !errors.Is(err, ErrValueTooLong) {
		t.Fatalf("expected ErrValueTooLong, got %v", err)
	}
}

func TestGet(t *testing.T) {
	svc := NewService(&fakeSettingsRepo{values: map[string]string{"site_name": "Gia phả"}})

	value, err := svc.Get(context.Background(), "site_name")
	if err != nil || value != "Gia phả" {
		t.Fatalf("expected value, got %q %v", value, err)
	}
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "Bad"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
