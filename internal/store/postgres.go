package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/greenline365/pregreet/internal/db"
	"github.com/greenline365/pregreet/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	pgTenantByID = `SELECT ` + tenantColumns + ` ` + tenantFrom + ` WHERE b.id = $1`

	pgTenantByPhone = `SELECT ` + tenantColumns + ` ` + tenantFrom + `
	WHERE b.twilio_phone_number LIKE '%' || $1 || '%' OR b.phone LIKE '%' || $1 || '%'
	ORDER BY b.is_active DESC, b.created_at ASC LIMIT 1`

	pgFirstActiveTenant = `SELECT ` + tenantColumns + ` ` + tenantFrom + `
	WHERE b.is_active = true ORDER BY b.created_at ASC LIMIT 1`

	pgContactByPhone = `SELECT ` + contactColumns + ` FROM contacts
	WHERE tenant_id = $1 AND phone_normalized = $2 LIMIT 1`

	pgPropertyByID = `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	pgActiveAssets = `SELECT ` + assetColumns + ` FROM assets
	WHERE property_id = $1 AND status = 'active' ORDER BY created_at DESC`

	pgLastInteraction = `SELECT ` + interactionColumns + ` FROM interactions
	WHERE contact_id = $1 ORDER BY created_at DESC LIMIT 1`
)

// preparedStatements lists queries to prepare on each new connection. Every
// pre-call lookup runs on the hot path, so all of them are prepared.
var preparedStatements = map[string]string{
	"tenant_by_id":        pgTenantByID,
	"tenant_by_phone":     pgTenantByPhone,
	"first_active_tenant": pgFirstActiveTenant,
	"contact_by_phone":    pgContactByPhone,
	"property_by_id":      pgPropertyByID,
	"active_assets":       pgActiveAssets,
	"last_interaction":    pgLastInteraction,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. The caller owns its lifecycle.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS industry_configs (
	id                  TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	industry_type       TEXT NOT NULL,
	decay_logic         JSONB,
	witty_hooks         JSONB,
	verification_prompt TEXT,
	emergency_keywords  JSONB
);

CREATE TABLE IF NOT EXISTS location_flavors (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	location_name TEXT,
	climate_quirk TEXT,
	witty_hooks   JSONB
);

CREATE TABLE IF NOT EXISTS businesses (
	id                    TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name                  TEXT NOT NULL,
	phone                 TEXT,
	twilio_phone_number   TEXT,
	is_active             BOOLEAN NOT NULL DEFAULT true,
	owner_name            TEXT,
	transfer_phone_number TEXT,
	zip_code              TEXT,
	industry_config_id    TEXT REFERENCES industry_configs(id),
	location_flavor_id    TEXT REFERENCES location_flavors(id),
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS properties (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	full_address TEXT,
	gate_code    TEXT,
	zip_code     TEXT
);

CREATE TABLE IF NOT EXISTS contacts (
	id                 TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	tenant_id          TEXT NOT NULL REFERENCES businesses(id),
	phone_normalized   TEXT NOT NULL,
	full_name          TEXT,
	first_name         TEXT,
	email              TEXT,
	relationship_score INTEGER,
	property_id        TEXT REFERENCES properties(id)
);

CREATE TABLE IF NOT EXISTS assets (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	property_id   TEXT NOT NULL REFERENCES properties(id),
	asset_type    TEXT,
	brand         TEXT,
	model_number  TEXT,
	install_date  DATE,
	last_verified TIMESTAMPTZ,
	metadata      JSONB,
	status        TEXT NOT NULL DEFAULT 'active',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS interactions (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	contact_id TEXT NOT NULL REFERENCES contacts(id),
	joke_id    INTEGER,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_businesses_active ON businesses(is_active, created_at);
CREATE INDEX IF NOT EXISTS idx_contacts_tenant_phone ON contacts(tenant_id, phone_normalized);
CREATE INDEX IF NOT EXISTS idx_assets_property_status ON assets(property_id, status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_interactions_contact ON interactions(contact_id, created_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) TenantByID(ctx context.Context, id string) (*model.Tenant, error) {
	t, err := scanTenant(s.pool.QueryRow(ctx, pgTenantByID, id))
	if db.IsNoRows(err) {
		return nil, nil
	}
	return t, eris.Wrapf(err, "postgres: tenant by id %s", id)
}

func (s *PostgresStore) TenantByPhone(ctx context.Context, digits string) (*model.Tenant, error) {
	t, err := scanTenant(s.pool.QueryRow(ctx, pgTenantByPhone, digits))
	if db.IsNoRows(err) {
		return nil, nil
	}
	return t, eris.Wrap(err, "postgres: tenant by phone")
}

func (s *PostgresStore) FirstActiveTenant(ctx context.Context) (*model.Tenant, error) {
	t, err := scanTenant(s.pool.QueryRow(ctx, pgFirstActiveTenant))
	if db.IsNoRows(err) {
		return nil, nil
	}
	return t, eris.Wrap(err, "postgres: first active tenant")
}

func (s *PostgresStore) ContactByPhone(ctx context.Context, tenantID, phone string) (*model.Contact, error) {
	c, err := scanContact(s.pool.QueryRow(ctx, pgContactByPhone, tenantID, phone))
	if db.IsNoRows(err) {
		return nil, nil
	}
	return c, eris.Wrapf(err, "postgres: contact by phone for tenant %s", tenantID)
}

func (s *PostgresStore) PropertyByID(ctx context.Context, id string) (*model.Property, error) {
	p, err := scanProperty(s.pool.QueryRow(ctx, pgPropertyByID, id))
	if db.IsNoRows(err) {
		return nil, nil
	}
	return p, eris.Wrapf(err, "postgres: property %s", id)
}

func (s *PostgresStore) ActiveAssets(ctx context.Context, propertyID string) ([]model.Asset, error) {
	rows, err := s.pool.Query(ctx, pgActiveAssets, propertyID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: active assets for property %s", propertyID)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan asset")
		}
		assets = append(assets, a)
	}
	return assets, eris.Wrap(rows.Err(), "postgres: iterate assets")
}

func (s *PostgresStore) LastInteraction(ctx context.Context, contactID string) (*model.Interaction, error) {
	i, err := scanInteraction(s.pool.QueryRow(ctx, pgLastInteraction, contactID))
	if db.IsNoRows(err) {
		return nil, nil
	}
	return i, eris.Wrapf(err, "postgres: last interaction for contact %s", contactID)
}
