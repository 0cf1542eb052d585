// Package briefing joins identity, scores, hooks, availability and weather
// into the pre-call briefing handed to the voice agent.
package briefing

import (
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/greenline365/pregreet/internal/availability"
	"github.com/greenline365/pregreet/internal/identity"
	"github.com/greenline365/pregreet/internal/model"
	"github.com/greenline365/pregreet/internal/scoring"
)

// DefaultVerificationThreshold is the confidence below which the agent
// confirms the equipment on file with the caller.
const DefaultVerificationThreshold = 70

// Placeholder defaults for verification prompts.
const (
	defaultBrand       = "the"
	defaultInstallYear = "unknown"
	defaultAssetType   = "equipment"
)

// Inputs is everything Assemble needs. It does no I/O.
type Inputs struct {
	CallID      string
	CallerPhone string
	Identity    identity.Result
	Hook        *model.Hook
	Slots       availability.Slots
	Weather     *model.WeatherContext

	// DefaultDecay applies where the tenant's industry has no thresholds.
	DefaultDecay          model.DecayConfig
	VerificationThreshold int
	Now                   time.Time
}

// Assemble builds the briefing. Missing inputs fall back to the safe
// defaults: full confidence, a neutral relationship, no hook, no prompt.
func Assemble(in Inputs) model.Briefing {
	id := in.Identity
	threshold := in.VerificationThreshold
	if threshold <= 0 {
		threshold = DefaultVerificationThreshold
	}

	var industry *model.IndustryConfig
	var location *model.LocationFlavor
	if id.Tenant != nil {
		industry = id.Tenant.Industry
		location = id.Tenant.Location
	}

	confidence := scoring.Confidence(id.PrimaryAsset, decayFor(industry, in.DefaultDecay), in.Now)
	relationship := scoring.Relationship(id.Contact)

	b := model.Briefing{
		Success:             true,
		IsNewCaller:         id.IsNewCaller,
		HasPropertyHistory:  id.Property != nil,
		CustomerPhone:       in.CallerPhone,
		PrimaryAsset:        summarize(id.PrimaryAsset),
		AssetCount:          len(id.Assets),
		ConfidenceScore:     confidence,
		RelationshipScore:   relationship,
		VibeCategory:        scoring.Categorize(relationship),
		NeedsVerification:   confidence < threshold,
		AvailableSlotsToday: in.Slots.Times,
		HasAvailability:     in.Slots.HasAvailability,
		Weather:             in.Weather,
		CompanyName:         id.Tenant.CompanyName(),
		EmergencyKeywords:   []string{},
		CallID:              in.CallID,
		Timestamp:           in.Now.UTC(),
	}
	if b.AvailableSlotsToday == nil {
		b.AvailableSlotsToday = []string{}
	}

	if c := id.Contact; c != nil {
		b.ContactID = model.StringPtr(c.ID)
		b.ContactName = model.StringPtr(c.FullName)
		b.CustomerName = model.StringPtr(c.FirstName)
		b.CustomerEmail = model.StringPtr(c.Email)
	}
	if p := id.Property; p != nil {
		b.PropertyID = model.StringPtr(p.ID)
		b.PropertyAddress = model.StringPtr(p.FullAddress)
		b.GateCode = model.StringPtr(p.GateCode)
	}
	if t := id.Tenant; t != nil {
		b.TenantID = model.StringPtr(t.ID)
		b.OwnerName = model.StringPtr(t.OwnerName)
		b.TransferPhone = model.StringPtr(t.TransferPhone)
	}
	if industry != nil {
		b.IndustryType = model.StringPtr(industry.IndustryType)
		if len(industry.EmergencyKeywords) > 0 {
			b.EmergencyKeywords = industry.EmergencyKeywords
		}
		if b.NeedsVerification {
			b.VerificationPrompt = VerificationPrompt(industry.VerificationPrompt, id.PrimaryAsset)
		}
	}
	if location != nil {
		b.ClimateQuirk = model.StringPtr(location.ClimateQuirk)
		b.LocationName = model.StringPtr(location.LocationName)
	}
	if in.Hook != nil {
		text, jokeID := in.Hook.Text, in.Hook.ID
		b.WittyHook = &text
		b.JokeID = &jokeID
	}
	if in.Weather != nil {
		b.WeatherRecommendation = in.Weather.Recommendation
	}
	return b
}

// VerificationPrompt fills the template's placeholders from asset. It
// returns nil when there is no template or no asset to ask about.
func VerificationPrompt(template string, asset *model.Asset) *string {
	if strings.TrimSpace(template) == "" || asset == nil {
		return nil
	}

	brand := asset.Brand
	if brand == "" {
		brand = defaultBrand
	}
	year := defaultInstallYear
	if asset.InstallDate != nil {
		year = strconv.Itoa(asset.InstallDate.Year())
	}
	assetType := asset.AssetType
	if assetType == "" {
		assetType = defaultAssetType
	}

	prompt := strings.NewReplacer(
		"{{brand}}", brand,
		"{{install_year}}", year,
		"{{asset_type}}", assetType,
	).Replace(template)
	return &prompt
}

func decayFor(industry *model.IndustryConfig, fallback model.DecayConfig) model.DecayConfig {
	if industry == nil {
		return fallback
	}
	d := industry.Decay
	if d.StaleYears <= 0 {
		d.StaleYears = fallback.StaleYears
	}
	if d.UnreliableYears <= 0 {
		d.UnreliableYears = fallback.UnreliableYears
	}
	return d
}

func summarize(a *model.Asset) *model.AssetSummary {
	if a == nil {
		return nil
	}
	s := &model.AssetSummary{
		ID:          a.ID,
		Type:        a.AssetType,
		Brand:       a.Brand,
		Model:       a.ModelNumber,
		InstallDate: a.InstallDate,
		Metadata:    maps.Clone(a.Metadata),
	}
	if a.InstallDate != nil {
		year := a.InstallDate.Year()
		s.InstallYear = &year
	}
	return s
}
