package storage

import (
	"context"
	"testing"

	"github.com/hammamikhairi/recipebox/internal/logger"
)

func TestMemoryStoreGetSet(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	// Missing key.
	_, found, err := store.Get(ctx, "recipes")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected missing key to be not found")
	}

	// Set and read back.
	value := []byte(`[{"id":"a"}]`)
	if err := store.Set(ctx, "recipes", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, found, err := store.Get(ctx, "recipes")
	if err != nil || !found {
		t.Fatalf("get after set: found=%v err=%v", found, err)
	}
	if string(got) != string(value) {
		t.Fatalf("expected %s, got %s", value, got)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	value := []byte("abc")
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'x'

	got, _, _ := store.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("store aliased caller slice: got %s", got)
	}
	got[1] = 'y'

	again, _, _ := store.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("store aliased returned slice: got %s", again)
	}
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Set(ctx, "k", []byte("v")); err == nil {
		t.Fatal("expected error on canceled context")
	}
	if _, _, err := store.Get(ctx, "k"); err == nil {
		t.Fatal("expected error on canceled context")
	}
}
