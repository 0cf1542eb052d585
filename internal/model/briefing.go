package model

import "time"

// VibeCategory is the discrete relationship tier used to pick a greeting tone.
type VibeCategory string

const (
	VibeStranger VibeCategory = "stranger"
	VibeRegular  VibeCategory = "regular"
	VibeVIP      VibeCategory = "vip"
)

// Alert severities.
const (
	SeverityExtreme = "extreme"
	SeveritySevere  = "severe"
)

// Safe defaults used when nothing could be resolved.
const (
	DefaultConfidenceScore   = 100
	DefaultRelationshipScore = 50
)

// AssetSummary is the primary asset as presented to the voice agent.
type AssetSummary struct {
	ID          string         `json:"id"`
	Type        string         `json:"type,omitempty"`
	Brand       string         `json:"brand,omitempty"`
	Model       string         `json:"model,omitempty"`
	InstallDate *time.Time     `json:"install_date,omitempty"`
	InstallYear *int           `json:"install_year,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Conditions are the current weather readings, imperial units.
type Conditions struct {
	Temp        int    `json:"temp"`
	FeelsLike   int    `json:"feels_like"`
	Humidity    int    `json:"humidity"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// Alert is an active weather alert for the caller's area.
type Alert struct {
	Event       string     `json:"event"`
	Description string     `json:"description,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Severity    string     `json:"severity"`
}

// WeatherContext is the weather enrichment attached to a briefing.
type WeatherContext struct {
	City           string     `json:"city"`
	Current        Conditions `json:"current"`
	Alerts         []Alert    `json:"alerts"`
	HasSevereAlert bool       `json:"has_severe_alert"`
	Recommendation *string    `json:"recommendation"`
}

// Briefing is the pre-call context handed to the voice agent.
type Briefing struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	IsNewCaller        bool `json:"is_new_caller"`
	HasPropertyHistory bool `json:"has_property_history"`

	ContactID     *string `json:"contact_id"`
	ContactName   *string `json:"contact_name"`
	CustomerName  *string `json:"customer_name"`
	CustomerEmail *string `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`

	PropertyID      *string `json:"property_id"`
	PropertyAddress *string `json:"property_address"`
	GateCode        *string `json:"gate_code"`

	PrimaryAsset *AssetSummary `json:"primary_asset"`
	AssetCount   int           `json:"asset_count"`

	ConfidenceScore   int          `json:"confidence_score"`
	RelationshipScore int          `json:"relationship_score"`
	VibeCategory      VibeCategory `json:"vibe_category"`

	NeedsVerification  bool    `json:"needs_verification"`
	VerificationPrompt *string `json:"verification_prompt"`

	WittyHook    *string `json:"witty_hook"`
	JokeID       *int    `json:"joke_id"`
	ClimateQuirk *string `json:"climate_quirk"`
	LocationName *string `json:"location_name"`

	AvailableSlotsToday []string `json:"available_slots_today"`
	HasAvailability     bool     `json:"has_availability"`

	Weather               *WeatherContext `json:"weather"`
	WeatherRecommendation *string         `json:"weather_recommendation"`

	CompanyName       string   `json:"company_name"`
	TenantID          *string  `json:"tenant_id"`
	IndustryType      *string  `json:"industry_type"`
	OwnerName         *string  `json:"owner_name"`
	TransferPhone     *string  `json:"transfer_phone"`
	EmergencyKeywords []string `json:"emergency_keywords"`

	CallID    string    `json:"call_id"`
	Timestamp time.Time `json:"timestamp"`
}

// FailedBriefing is returned when the briefing could not be built at all.
func FailedBriefing(callID, callerPhone string, cause error, now time.Time) Briefing {
	b := Briefing{
		Success:             false,
		IsNewCaller:         true,
		CustomerPhone:       callerPhone,
		ConfidenceScore:     DefaultConfidenceScore,
		RelationshipScore:   DefaultRelationshipScore,
		VibeCategory:        VibeStranger,
		AvailableSlotsToday: []string{},
		CompanyName:         DefaultCompanyName,
		EmergencyKeywords:   []string{},
		CallID:              callID,
		Timestamp:           now.UTC(),
	}
	if cause != nil {
		b.Error = cause.Error()
	}
	return b
}

// StringPtr returns nil for empty strings.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
