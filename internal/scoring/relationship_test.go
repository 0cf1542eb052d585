package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greenline365/pregreet/internal/model"
)

func intPtr(i int) *int { return &i }

func TestRelationship(t *testing.T) {
	assert.Equal(t, 50, Relationship(nil))
	assert.Equal(t, 50, Relationship(&model.Contact{ID: "c-1"}))
	assert.Equal(t, 82, Relationship(&model.Contact{RelationshipScore: intPtr(82)}))
	assert.Equal(t, 0, Relationship(&model.Contact{RelationshipScore: intPtr(0)}))
	assert.Equal(t, 100, Relationship(&model.Contact{RelationshipScore: intPtr(140)}))
	assert.Equal(t, 0, Relationship(&model.Contact{RelationshipScore: intPtr(-5)}))
}

func TestCategorize_Boundaries(t *testing.T) {
	cases := map[int]model.VibeCategory{
		-10: model.VibeStranger,
		0:   model.VibeStranger,
		30:  model.VibeStranger,
		31:  model.VibeRegular,
		50:  model.VibeRegular,
		70:  model.VibeRegular,
		71:  model.VibeVIP,
		100: model.VibeVIP,
		250: model.VibeVIP,
	}
	for score, want := range cases {
		assert.Equal(t, want, Categorize(score), "score %d", score)
	}
}

func TestCategorize_DefaultIsRegular(t *testing.T) {
	assert.Equal(t, model.VibeRegular, Categorize(Relationship(nil)))
}
