// Package industry supplies per-industry defaults for tenants whose stored
// industry config leaves fields blank.
package industry

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/greenline365/pregreet/internal/model"
)

// Profiles is the parsed industry profiles file.
type Profiles struct {
	Defaults Profile            `yaml:"defaults"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile holds the fallback values for one industry type.
type Profile struct {
	Decay              model.DecayConfig `yaml:"decay_logic"`
	VerificationPrompt string            `yaml:"verification_prompt"`
	EmergencyKeywords  []string          `yaml:"emergency_keywords"`
	WittyHooks         []string          `yaml:"witty_hooks"`
}

// LoadProfiles reads industry profiles from a YAML file. The file has a
// top-level "industries" key.
func LoadProfiles(path string) (*Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "industry: read profiles %s", path)
	}
	return ParseProfiles(data)
}

// ParseProfiles decodes profile YAML. Industry keys are matched
// case-insensitively.
func ParseProfiles(data []byte) (*Profiles, error) {
	var wrapper struct {
		Industries Profiles `yaml:"industries"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "industry: parse profiles")
	}

	p := &wrapper.Industries
	normalized := make(map[string]Profile, len(p.Profiles))
	for key, prof := range p.Profiles {
		if prof.Decay.StaleYears <= 0 {
			prof.Decay.StaleYears = p.Defaults.Decay.StaleYears
		}
		if prof.Decay.UnreliableYears <= 0 {
			prof.Decay.UnreliableYears = p.Defaults.Decay.UnreliableYears
		}
		normalized[strings.ToLower(strings.TrimSpace(key))] = prof
	}
	p.Profiles = normalized
	return p, nil
}

// Lookup returns the profile for an industry type, falling back to defaults.
func (p *Profiles) Lookup(industryType string) (Profile, bool) {
	if p == nil {
		return Profile{}, false
	}
	if prof, ok := p.Profiles[strings.ToLower(strings.TrimSpace(industryType))]; ok {
		return prof, true
	}
	return p.Defaults, false
}

// Apply returns a copy of t whose industry config has blank fields filled
// from the matching profile. Values already set on the tenant win. A tenant
// without an industry config is returned unchanged.
func (p *Profiles) Apply(t *model.Tenant) *model.Tenant {
	if p == nil || t == nil || t.Industry == nil {
		return t
	}
	prof, _ := p.Lookup(t.Industry.IndustryType)

	ic := *t.Industry
	if ic.Decay.StaleYears <= 0 {
		ic.Decay.StaleYears = prof.Decay.StaleYears
	}
	if ic.Decay.UnreliableYears <= 0 {
		ic.Decay.UnreliableYears = prof.Decay.UnreliableYears
	}
	if ic.VerificationPrompt == "" {
		ic.VerificationPrompt = prof.VerificationPrompt
	}
	if len(ic.EmergencyKeywords) == 0 {
		ic.EmergencyKeywords = prof.EmergencyKeywords
	}
	if len(ic.WittyHooks) == 0 {
		ic.WittyHooks = prof.WittyHooks
	}

	out := *t
	out.Industry = &ic
	return &out
}
