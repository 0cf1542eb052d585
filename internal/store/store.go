package store

import (
	"context"

	"github.com/greenline365/pregreet/internal/model"
)

// Store defines the read-side persistence interface used to resolve a
// caller. Lookups that match nothing return a nil value and a nil error.
type Store interface {
	// Tenants
	TenantByID(ctx context.Context, id string) (*model.Tenant, error)
	TenantByPhone(ctx context.Context, digits string) (*model.Tenant, error)
	FirstActiveTenant(ctx context.Context) (*model.Tenant, error)

	// Callers
	ContactByPhone(ctx context.Context, tenantID, phone string) (*model.Contact, error)
	PropertyByID(ctx context.Context, id string) (*model.Property, error)
	ActiveAssets(ctx context.Context, propertyID string) ([]model.Asset, error)
	LastInteraction(ctx context.Context, contactID string) (*model.Interaction, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
