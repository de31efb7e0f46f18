package store

import (
	"context"
	"errors"
	"testing"

	"github.com/garmenthq/stylebot/internal/db"
	"github.com/garmenthq/stylebot/internal/model"
)

func TestMerchantLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	merchant, err := CreateMerchant(ctx, database, "acme", "hash1", model.RoleMerchant)
	if err != nil {
		t.Fatalf("creating merchant: %v", err)
	}
	if merchant.Name != "acme" || merchant.Role != model.RoleMerchant {
		t.Errorf("merchant not stored verbatim: %+v", merchant)
	}

	byName, err := GetMerchantByName(ctx, database, "acme")
	if err != nil {
		t.Fatalf("getting merchant by name: %v", err)
	}
	if byName.ID != merchant.ID {
		t.Errorf("lookup by name returned id %d, want %d", byName.ID, merchant.ID)
	}

	if err := UpdateMerchantRole(ctx, database, merchant.ID, model.RoleAdmin); err != nil {
		t.Fatalf("updating role: %v", err)
	}
	if err := UpdateMerchantPassword(ctx, database, merchant.ID, "hash2"); err != nil {
		t.Fatalf("updating password: %v", err)
	}

	got, err := GetMerchant(ctx, database, merchant.ID)
	if err != nil {
		t.Fatalf("getting merchant: %v", err)
	}
	if got.Role != model.RoleAdmin || got.PasswordHash != "hash2" {
		t.Errorf("updates not applied: %+v", got)
	}

	if err := DeleteMerchant(ctx, database, merchant.ID); err != nil {
		t.Fatalf("deleting merchant: %v", err)
	}
	if err := DeleteMerchant(ctx, database, merchant.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}

	// Soft-deleted merchants stay reachable by name so login can tell them
	// apart from unknown accounts, but drop out of the listing.
	byName, err = GetMerchantByName(ctx, database, "acme")
	if err != nil {
		t.Fatalf("getting deleted merchant by name: %v", err)
	}
	if byName.DeletedAt == nil {
		t.Error("deleted_at not set")
	}

	merchants, err := ListMerchants(ctx, database)
	if err != nil {
		t.Fatalf("listing merchants: %v", err)
	}
	if len(merchants) != 0 {
		t.Errorf("deleted merchant still listed: %+v", merchants)
	}

	// The name becomes reusable once its holder is gone.
	if _, err := CreateMerchant(ctx, database, "acme", "hash3", model.RoleMerchant); err != nil {
		t.Errorf("re-creating deleted merchant name: %v", err)
	}
}

func TestCreateMerchantDuplicateName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateMerchant(ctx, database, "acme", "hash", model.RoleMerchant); err != nil {
		t.Fatalf("creating merchant: %v", err)
	}
	if _, err := CreateMerchant(ctx, database, "acme", "hash", model.RoleMerchant); err == nil {
		t.Error("duplicate active name accepted")
	}
}

func TestGetMerchantNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := GetMerchant(ctx, database, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := GetMerchantByName(ctx, database, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := UpdateMerchantRole(ctx, database, 42, model.RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
