package store

import (
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenline365/pregreet/internal/model"
)

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const tenantColumns = `b.id, b.name, b.phone, b.twilio_phone_number, b.is_active,
	b.owner_name, b.transfer_phone_number, b.zip_code,
	ic.industry_type, ic.decay_logic, ic.witty_hooks, ic.verification_prompt, ic.emergency_keywords,
	lf.location_name, lf.climate_quirk, lf.witty_hooks`

const tenantFrom = `FROM businesses b
	LEFT JOIN industry_configs ic ON ic.id = b.industry_config_id
	LEFT JOIN location_flavors lf ON lf.id = b.location_flavor_id`

const contactColumns = `id, tenant_id, phone_normalized, full_name, first_name, email, relationship_score, property_id`

const propertyColumns = `id, full_address, gate_code, zip_code`

const assetColumns = `id, property_id, asset_type, brand, model_number, install_date, last_verified, metadata, status, created_at`

const interactionColumns = `id, contact_id, joke_id, created_at`

func scanTenant(row rowScanner) (*model.Tenant, error) {
	var (
		t                                             model.Tenant
		phone, twilio, owner, transfer, zip           sql.NullString
		industryType, prompt, locationName, quirk     sql.NullString
		decayRaw, industryHooks, keywords, localHooks []byte
	)
	err := row.Scan(
		&t.ID, &t.Name, &phone, &twilio, &t.IsActive,
		&owner, &transfer, &zip,
		&industryType, &decayRaw, &industryHooks, &prompt, &keywords,
		&locationName, &quirk, &localHooks,
	)
	if err != nil {
		return nil, err
	}
	t.Phone = phone.String
	t.TwilioPhoneNumber = twilio.String
	t.OwnerName = owner.String
	t.TransferPhone = transfer.String
	t.ZipCode = zip.String

	if industryType.Valid {
		ic := &model.IndustryConfig{
			IndustryType:       industryType.String,
			VerificationPrompt: prompt.String,
		}
		if len(decayRaw) > 0 && string(decayRaw) != "null" {
			if err := json.Unmarshal(decayRaw, &ic.Decay); err != nil {
				ic.Decay = model.DecayConfig{}
				logBadConfig(t.ID, "decay_logic", err)
			}
		}
		ic.WittyHooks = decodeList(t.ID, "industry witty_hooks", industryHooks, model.ParseHooks)
		ic.EmergencyKeywords = decodeList(t.ID, "emergency_keywords", keywords, model.ParseStringList)
		t.Industry = ic
	}

	if locationName.Valid || quirk.Valid || localHooks != nil {
		t.Location = &model.LocationFlavor{
			LocationName: locationName.String,
			ClimateQuirk: quirk.String,
			WittyHooks:   decodeList(t.ID, "location witty_hooks", localHooks, model.ParseHooks),
		}
	}
	return &t, nil
}

// decodeList parses a stored JSON list. A malformed value is logged and
// treated as empty so the rest of the tenant still resolves.
func decodeList(tenantID, column string, raw []byte, parse func([]byte) ([]string, error)) []string {
	list, err := parse(raw)
	if err != nil {
		logBadConfig(tenantID, column, err)
		return nil
	}
	return list
}

func logBadConfig(tenantID, column string, err error) {
	zap.L().Warn("store: ignoring malformed tenant config",
		zap.String("tenant_id", tenantID),
		zap.String("column", column),
		zap.Error(eris.Wrapf(err, "store: decode %s", column)),
	)
}

func scanContact(row rowScanner) (*model.Contact, error) {
	var (
		c                               model.Contact
		fullName, firstName, email, pid sql.NullString
		score                           sql.NullInt32
	)
	if err := row.Scan(&c.ID, &c.TenantID, &c.PhoneNormalized, &fullName, &firstName, &email, &score, &pid); err != nil {
		return nil, err
	}
	c.FullName = fullName.String
	c.FirstName = firstName.String
	c.Email = email.String
	c.PropertyID = pid.String
	if score.Valid {
		s := int(score.Int32)
		c.RelationshipScore = &s
	}
	return &c, nil
}

func scanProperty(row rowScanner) (*model.Property, error) {
	var (
		p                   model.Property
		addr, gate, zipCode sql.NullString
	)
	if err := row.Scan(&p.ID, &addr, &gate, &zipCode); err != nil {
		return nil, err
	}
	p.FullAddress = addr.String
	p.GateCode = gate.String
	p.ZipCode = zipCode.String
	return &p, nil
}

func scanAsset(row rowScanner) (model.Asset, error) {
	var (
		a                         model.Asset
		assetType, brand, modelNo sql.NullString
		installed, verified       sql.NullTime
		metadata                  []byte
	)
	err := row.Scan(&a.ID, &a.PropertyID, &assetType, &brand, &modelNo,
		&installed, &verified, &metadata, &a.Status, &a.CreatedAt)
	if err != nil {
		return a, err
	}
	a.AssetType = assetType.String
	a.Brand = brand.String
	a.ModelNumber = modelNo.String
	if installed.Valid {
		t := installed.Time
		a.InstallDate = &t
	}
	if verified.Valid {
		t := verified.Time
		a.LastVerified = &t
	}
	if len(metadata) > 0 && string(metadata) != "null" {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			a.Metadata = nil
			zap.L().Warn("store: ignoring malformed asset metadata",
				zap.String("asset_id", a.ID),
				zap.Error(eris.Wrapf(err, "store: decode metadata for asset %s", a.ID)),
			)
		}
	}
	return a, nil
}

func scanInteraction(row rowScanner) (*model.Interaction, error) {
	var (
		i    model.Interaction
		joke sql.NullInt32
	)
	if err := row.Scan(&i.ID, &i.ContactID, &joke, &i.CreatedAt); err != nil {
		return nil, err
	}
	if joke.Valid {
		j := int(joke.Int32)
		i.JokeID = &j
	}
	return &i, nil
}
