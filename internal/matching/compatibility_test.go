// internal/matching/compatibility_test.go

package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmotionalScore(t *testing.T) {
	a := &User{EmotionalIntelligence: 80}
	b := &User{EmotionalIntelligence: 60}

	// diff 20 -> similarity 60, avg 70 -> level bonus 35
	assert.InDelta(t, 95, emotionalScore(a, b), 1e-9)

	// capped at 100
	a.EmotionalIntelligence = 100
	b.EmotionalIntelligence = 100
	assert.InDelta(t, 100, emotionalScore(a, b), 1e-9)

	// maximum spread still floors at the level bonus
	a.EmotionalIntelligence = 100
	b.EmotionalIntelligence = 0
	assert.InDelta(t, 25, emotionalScore(a, b), 1e-9)
}

func TestCommunicationScore(t *testing.T) {
	a := &User{CommunicationStyle: 70, ConflictResolution: 50}
	b := &User{CommunicationStyle: 30, ConflictResolution: 50}

	// style: diff 40 with avg 50 misses the sweet spot, 80-32-5 = 43
	// conflict: identical -> 100
	assert.InDelta(t, 71.5, communicationScore(a, b), 1e-9)
}

func TestComplementaryScore(t *testing.T) {
	// sweet spot: moderate gap, high average
	assert.InDelta(t, 92, complementaryScore(85, 55), 1e-9)

	// near-identical styles
	assert.InDelta(t, 97, complementaryScore(80, 80), 1e-9)

	// extreme gap, low average, clamped at the floor
	assert.InDelta(t, 30, complementaryScore(95, 5), 1e-9)
}

func TestSimilarityDimensions(t *testing.T) {
	a := &User{LifeValues: 90, RelationshipGoals: 80}
	b := &User{LifeValues: 40, RelationshipGoals: 20}

	assert.InDelta(t, 40, valuesScore(a, b), 1e-9)  // 100 - 50*1.2
	assert.InDelta(t, 10, goalsScore(a, b), 1e-9)   // 100 - 60*1.5

	// fully clamped at zero
	b.LifeValues = 0
	b.RelationshipGoals = 0
	assert.InDelta(t, 0, valuesScore(a, b), 1e-9)
	assert.InDelta(t, 0, goalsScore(a, b), 1e-9)
}

func TestPersonalityScoreDirectional(t *testing.T) {
	intj := &User{PersonalityType: strptr("INTJ")}
	infj := &User{PersonalityType: strptr("INFJ")}

	// INFJ is listed as a complement of INTJ, but INFJ has no entry of its
	// own, so the reverse direction falls to the mismatch default.
	assert.InDelta(t, 85, personalityScore(intj, infj), 1e-9)
	assert.InDelta(t, 55, personalityScore(infj, intj), 1e-9)

	// same type
	other := &User{PersonalityType: strptr("INTJ")}
	assert.InDelta(t, 75, personalityScore(intj, other), 1e-9)

	// missing type is neutral
	assert.InDelta(t, 50, personalityScore(intj, &User{}), 1e-9)
	assert.InDelta(t, 50, personalityScore(&User{}, infj), 1e-9)
}

func TestAttachmentScore(t *testing.T) {
	secure := &User{AttachmentStyle: strptr("secure")}
	anxious := &User{AttachmentStyle: strptr("anxious")}
	avoidant := &User{AttachmentStyle: strptr("avoidant")}

	assert.InDelta(t, 95, attachmentScore(secure, secure), 1e-9)
	assert.InDelta(t, 30, attachmentScore(anxious, avoidant), 1e-9)
	assert.InDelta(t, 30, attachmentScore(avoidant, anxious), 1e-9)

	// unmapped style and missing style are both neutral
	unknown := &User{AttachmentStyle: strptr("fearful")}
	assert.InDelta(t, 50, attachmentScore(secure, unknown), 1e-9)
	assert.InDelta(t, 50, attachmentScore(secure, &User{}), 1e-9)
}

func TestScoreProfilesWorkedExample(t *testing.T) {
	a := &User{
		EmotionalIntelligence: 80,
		CommunicationStyle:    70,
		ConflictResolution:    50,
		RelationshipGoals:     60,
		LifeValues:            70,
	}
	b := &User{
		EmotionalIntelligence: 60,
		CommunicationStyle:    30,
		ConflictResolution:    50,
		RelationshipGoals:     60,
		LifeValues:            70,
	}

	got := ScoreProfiles(a, b)

	assert.Equal(t, 95, got.Emotional)
	assert.Equal(t, 72, got.Communication) // 71.5 rounded half-up
	assert.Equal(t, 100, got.Values)
	assert.Equal(t, 100, got.Goals)
	assert.Equal(t, 50, got.Personality)
	assert.Equal(t, 50, got.Attachment)

	// Overall is weighted over the unrounded dimensions:
	// 95*.25 + 71.5*.20 + 100*.25 + 50*.15 + 100*.10 + 50*.05 = 83.05
	assert.Equal(t, 83, got.Overall)
}

func TestScoreProfilesSymmetryWithoutPersonality(t *testing.T) {
	a := assessedUser("a", "female", "male", 73)
	a.AttachmentStyle = strptr("secure")
	b := assessedUser("b", "male", "female", 41)
	b.AttachmentStyle = strptr("anxious")

	ab := ScoreProfiles(a, b)
	ba := ScoreProfiles(b, a)

	// Personality is the only directional dimension; with no recorded
	// types the whole result must be symmetric.
	assert.Equal(t, ab, ba)
}

func TestScoreProfilesBounds(t *testing.T) {
	lo := assessedUser("lo", "female", "male", 1)
	hi := assessedUser("hi", "male", "female", 100)

	for _, pair := range [][2]*User{{lo, hi}, {lo, lo}, {hi, hi}} {
		got := ScoreProfiles(pair[0], pair[1])
		for _, v := range []int{
			got.Overall, got.Emotional, got.Communication,
			got.Values, got.Personality, got.Goals, got.Attachment,
		} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := weightEmotional + weightCommunication + weightValues +
		weightPersonality + weightGoals + weightAttachment
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 85, round(84.5))
	assert.Equal(t, 2, round(2.4))
	assert.Equal(t, 3, round(2.6))
}
