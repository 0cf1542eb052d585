package model

// DefaultCompanyName is used in greetings when no tenant could be resolved.
const DefaultCompanyName = "our company"

// Tenant is a business unit answering calls.
type Tenant struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone,omitempty"`
	TwilioPhoneNumber string          `json:"twilio_phone_number,omitempty"`
	IsActive          bool            `json:"is_active"`
	OwnerName         string          `json:"owner_name,omitempty"`
	TransferPhone     string          `json:"transfer_phone_number,omitempty"`
	ZipCode           string          `json:"zip_code,omitempty"`
	Industry          *IndustryConfig `json:"industry_config,omitempty"`
	Location          *LocationFlavor `json:"location_flavor,omitempty"`
}

// CompanyName returns the tenant's display name, or the generic default.
func (t *Tenant) CompanyName() string {
	if t == nil || t.Name == "" {
		return DefaultCompanyName
	}
	return t.Name
}

// DecayConfig holds the age thresholds (in years) for confidence decay.
type DecayConfig struct {
	StaleYears      float64 `json:"stale_years" yaml:"stale_years"`
	UnreliableYears float64 `json:"unreliable_years" yaml:"unreliable_years"`
}

// IndustryConfig is the industry-specific behavior attached to a tenant.
type IndustryConfig struct {
	IndustryType       string      `json:"industry_type"`
	Decay              DecayConfig `json:"decay_logic"`
	WittyHooks         []string    `json:"witty_hooks"`
	VerificationPrompt string      `json:"verification_prompt,omitempty"`
	EmergencyKeywords  []string    `json:"emergency_keywords"`
}

// LocationFlavor is the local color attached to a tenant.
type LocationFlavor struct {
	LocationName string   `json:"location_name,omitempty"`
	ClimateQuirk string   `json:"climate_quirk,omitempty"`
	WittyHooks   []string `json:"witty_hooks"`
}
