package scoring

import "github.com/greenline365/pregreet/internal/model"

// Vibe thresholds on the 0-100 relationship scale.
const (
	strangerMax = 30
	regularMax  = 70
)

// Relationship returns the caller's relationship score, or the neutral
// default when the caller is unknown or unscored.
func Relationship(c *model.Contact) int {
	if c == nil || c.RelationshipScore == nil {
		return model.DefaultRelationshipScore
	}
	return clamp(*c.RelationshipScore)
}

// Categorize maps a relationship score to a vibe category.
func Categorize(score int) model.VibeCategory {
	score = clamp(score)
	switch {
	case score <= strangerMax:
		return model.VibeStranger
	case score <= regularMax:
		return model.VibeRegular
	default:
		return model.VibeVIP
	}
}
