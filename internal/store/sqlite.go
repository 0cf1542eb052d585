package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/greenline365/pregreet/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It backs local
// development and the brief command when no Postgres is at hand.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS industry_configs (
	id                  TEXT PRIMARY KEY,
	industry_type       TEXT NOT NULL,
	decay_logic         TEXT,
	witty_hooks         TEXT,
	verification_prompt TEXT,
	emergency_keywords  TEXT
);

CREATE TABLE IF NOT EXISTS location_flavors (
	id            TEXT PRIMARY KEY,
	location_name TEXT,
	climate_quirk TEXT,
	witty_hooks   TEXT
);

CREATE TABLE IF NOT EXISTS businesses (
	id                    TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	phone                 TEXT,
	twilio_phone_number   TEXT,
	is_active             BOOLEAN NOT NULL DEFAULT 1,
	owner_name            TEXT,
	transfer_phone_number TEXT,
	zip_code              TEXT,
	industry_config_id    TEXT REFERENCES industry_configs(id),
	location_flavor_id    TEXT REFERENCES location_flavors(id),
	created_at            DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS properties (
	id           TEXT PRIMARY KEY,
	full_address TEXT,
	gate_code    TEXT,
	zip_code     TEXT
);

CREATE TABLE IF NOT EXISTS contacts (
	id                 TEXT PRIMARY KEY,
	tenant_id          TEXT NOT NULL REFERENCES businesses(id),
	phone_normalized   TEXT NOT NULL,
	full_name          TEXT,
	first_name         TEXT,
	email              TEXT,
	relationship_score INTEGER,
	property_id        TEXT REFERENCES properties(id)
);

CREATE TABLE IF NOT EXISTS assets (
	id            TEXT PRIMARY KEY,
	property_id   TEXT NOT NULL REFERENCES properties(id),
	asset_type    TEXT,
	brand         TEXT,
	model_number  TEXT,
	install_date  DATE,
	last_verified DATETIME,
	metadata      TEXT,
	status        TEXT NOT NULL DEFAULT 'active',
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS interactions (
	id         TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts(id),
	joke_id    INTEGER,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_businesses_active ON businesses(is_active, created_at);
CREATE INDEX IF NOT EXISTS idx_contacts_tenant_phone ON contacts(tenant_id, phone_normalized);
CREATE INDEX IF NOT EXISTS idx_assets_property_status ON assets(property_id, status, created_at);
CREATE INDEX IF NOT EXISTS idx_interactions_contact ON interactions(contact_id, created_at);
`

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the handle for seeding local databases.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) TenantByID(ctx context.Context, id string) (*model.Tenant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` `+tenantFrom+` WHERE b.id = ?`, id)
	t, err := scanTenant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, eris.Wrapf(err, "sqlite: tenant by id %s", id)
}

func (s *SQLiteStore) TenantByPhone(ctx context.Context, digits string) (*model.Tenant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` `+tenantFrom+`
		WHERE b.twilio_phone_number LIKE '%' || ? || '%' OR b.phone LIKE '%' || ? || '%'
		ORDER BY b.is_active DESC, b.created_at ASC LIMIT 1`,
		digits, digits)
	t, err := scanTenant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, eris.Wrap(err, "sqlite: tenant by phone")
}

func (s *SQLiteStore) FirstActiveTenant(ctx context.Context) (*model.Tenant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` `+tenantFrom+`
		WHERE b.is_active = 1 ORDER BY b.created_at ASC LIMIT 1`)
	t, err := scanTenant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, eris.Wrap(err, "sqlite: first active tenant")
}

func (s *SQLiteStore) ContactByPhone(ctx context.Context, tenantID, phone string) (*model.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE tenant_id = ? AND phone_normalized = ? LIMIT 1`,
		tenantID, phone)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, eris.Wrapf(err, "sqlite: contact by phone for tenant %s", tenantID)
}

func (s *SQLiteStore) PropertyByID(ctx context.Context, id string) (*model.Property, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, eris.Wrapf(err, "sqlite: property %s", id)
}

func (s *SQLiteStore) ActiveAssets(ctx context.Context, propertyID string) ([]model.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets
		WHERE property_id = ? AND status = 'active' ORDER BY created_at DESC`,
		propertyID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: active assets for property %s", propertyID)
	}
	defer rows.Close() //nolint:errcheck

	var assets []model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan asset")
		}
		assets = append(assets, a)
	}
	return assets, eris.Wrap(rows.Err(), "sqlite: iterate assets")
}

func (s *SQLiteStore) LastInteraction(ctx context.Context, contactID string) (*model.Interaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+interactionColumns+` FROM interactions
		WHERE contact_id = ? ORDER BY created_at DESC LIMIT 1`,
		contactID)
	i, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return i, eris.Wrapf(err, "sqlite: last interaction for contact %s", contactID)
}
