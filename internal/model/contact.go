package model

import "time"

// AssetStatusActive marks equipment that is still in service.
const AssetStatusActive = "active"

// Contact is a known caller within a tenant.
type Contact struct {
	ID                string `json:"id"`
	TenantID          string `json:"tenant_id"`
	PhoneNormalized   string `json:"phone_normalized"`
	FullName          string `json:"full_name,omitempty"`
	FirstName         string `json:"first_name,omitempty"`
	Email             string `json:"email,omitempty"`
	RelationshipScore *int   `json:"relationship_score,omitempty"`
	PropertyID        string `json:"property_id,omitempty"`
}

// Property is a physical address tied to a contact.
type Property struct {
	ID          string `json:"id"`
	FullAddress string `json:"full_address,omitempty"`
	GateCode    string `json:"gate_code,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`
}

// Asset is a piece of tracked equipment at a property.
type Asset struct {
	ID           string         `json:"id"`
	PropertyID   string         `json:"property_id"`
	AssetType    string         `json:"asset_type,omitempty"`
	Brand        string         `json:"brand,omitempty"`
	ModelNumber  string         `json:"model_number,omitempty"`
	InstallDate  *time.Time     `json:"install_date,omitempty"`
	LastVerified *time.Time     `json:"last_verified,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Interaction is a prior contact event with a caller.
type Interaction struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	JokeID    *int      `json:"joke_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
