// internal/matching/compatibility.go
//
// Multi-dimensional compatibility scoring between two user profiles.
// Dimensions are weighted differently; some reward similarity (values,
// goals), some reward complementarity (communication style).

package matching

import (
	"fmt"
	"math"
)

// Dimension weights for the overall score. Must sum to exactly 1.0.
const (
	weightEmotional     = 0.25
	weightCommunication = 0.20
	weightValues        = 0.25
	weightPersonality   = 0.15
	weightGoals         = 0.10
	weightAttachment    = 0.05
)

func init() {
	sum := weightEmotional + weightCommunication + weightValues +
		weightPersonality + weightGoals + weightAttachment
	if sum != 1.0 {
		panic(fmt.Sprintf("matching: compatibility weights sum to %v, want 1.0", sum))
	}
}

// Compatibility is the scored result of comparing two profiles. All fields
// are 0-100 integers, rounded half-up once at the edge; Overall is computed
// from the unrounded dimension values.
type Compatibility struct {
	Overall       int `json:"overall"`
	Emotional     int `json:"emotional"`
	Communication int `json:"communication"`
	Values        int `json:"values"`
	Personality   int `json:"personality"`
	Goals         int `json:"goals"`
	Attachment    int `json:"attachment"`
}

// personalityComplements lists, per type, the types considered complementary
// to it. The lookup is directional: only the first user's type is used as
// the key, so ScoreProfiles(a, b) and ScoreProfiles(b, a) can disagree on
// this one dimension. The table is a deliberate simplification of a 16x16
// chart and is not fully populated; unknown keys fall through to the
// same-type / default branches.
var personalityComplements = map[string][]string{
	"INTJ": {"ENFP", "ENTP", "INFJ"},
	"INFP": {"ENFJ", "ENTJ", "INFJ"},
	"ENFP": {"INTJ", "INFJ", "ISFJ"},
	"ENFJ": {"INFP", "ISFP", "INTJ"},
}

// attachmentCompatibility maps ordered pairs of attachment styles to a
// score. Unmapped pairs score the neutral default of 50.
var attachmentCompatibility = map[string]map[string]float64{
	"secure":       {"secure": 95, "anxious": 80, "avoidant": 75, "disorganized": 60},
	"anxious":      {"secure": 80, "anxious": 40, "avoidant": 30, "disorganized": 45},
	"avoidant":     {"secure": 75, "anxious": 30, "avoidant": 60, "disorganized": 50},
	"disorganized": {"secure": 60, "anxious": 45, "avoidant": 50, "disorganized": 35},
}

// ScoreProfiles computes the full compatibility between two users. Pure:
// no side effects, no store access. Callers are responsible for passing
// assessment values already validated into the 0-100 range.
func ScoreProfiles(a, b *User) Compatibility {
	emotional := emotionalScore(a, b)
	communication := communicationScore(a, b)
	values := valuesScore(a, b)
	personality := personalityScore(a, b)
	goals := goalsScore(a, b)
	attachment := attachmentScore(a, b)

	overall := emotional*weightEmotional +
		communication*weightCommunication +
		values*weightValues +
		personality*weightPersonality +
		goals*weightGoals +
		attachment*weightAttachment

	return Compatibility{
		Overall:       round(overall),
		Emotional:     round(emotional),
		Communication: round(communication),
		Values:        round(values),
		Personality:   round(personality),
		Goals:         round(goals),
		Attachment:    round(attachment),
	}
}

// emotionalScore prefers similar emotional intelligence levels but rewards
// a high shared average.
func emotionalScore(a, b *User) float64 {
	diff := math.Abs(float64(a.EmotionalIntelligence - b.EmotionalIntelligence))
	avg := float64(a.EmotionalIntelligence+b.EmotionalIntelligence) / 2

	similarityBonus := math.Max(0, 100-diff*2)
	levelBonus := avg * 0.5

	return math.Min(100, similarityBonus+levelBonus)
}

// communicationScore blends complementary communication styles with
// similarity of conflict resolution approaches.
func communicationScore(a, b *User) float64 {
	styleScore := complementaryScore(float64(a.CommunicationStyle), float64(b.CommunicationStyle))

	conflictDiff := math.Abs(float64(a.ConflictResolution - b.ConflictResolution))
	conflictScore := math.Max(0, 100-conflictDiff*1.5)

	return (styleScore + conflictScore) / 2
}

// valuesScore rewards similarity of life values.
func valuesScore(a, b *User) float64 {
	diff := math.Abs(float64(a.LifeValues - b.LifeValues))
	return math.Max(0, 100-diff*1.2)
}

// goalsScore rewards similarity of relationship goals.
func goalsScore(a, b *User) float64 {
	diff := math.Abs(float64(a.RelationshipGoals - b.RelationshipGoals))
	return math.Max(0, 100-diff*1.5)
}

// personalityScore looks up b's type in the complement list keyed by a's
// type. Neutral 50 when either profile has no recorded type.
func personalityScore(a, b *User) float64 {
	if a.PersonalityType == nil || b.PersonalityType == nil {
		return 50
	}

	for _, complement := range personalityComplements[*a.PersonalityType] {
		if complement == *b.PersonalityType {
			return 85
		}
	}
	if *a.PersonalityType == *b.PersonalityType {
		return 75
	}
	return 55
}

// attachmentScore looks up the pair in the 4x4 style matrix. Neutral 50 for
// missing styles or unmapped pairs.
func attachmentScore(a, b *User) float64 {
	if a.AttachmentStyle == nil || b.AttachmentStyle == nil {
		return 50
	}

	if row, ok := attachmentCompatibility[*a.AttachmentStyle]; ok {
		if score, ok := row[*b.AttachmentStyle]; ok {
			return score
		}
	}
	return 50
}

// complementaryScore scores traits that benefit from moderate differences.
// The sweet spot is a 20-40 point gap with a high shared average; very
// similar scores are also good; extreme gaps or low averages are penalized.
func complementaryScore(x, y float64) float64 {
	diff := math.Abs(x - y)
	avg := (x + y) / 2

	switch {
	case diff >= 20 && diff <= 40 && avg >= 60:
		return 90 + (avg-60)*0.2
	case diff < 10:
		return 85 + avg*0.15
	default:
		return math.Max(30, 80-diff*0.8-math.Max(0, 60-avg)*0.5)
	}
}

// round rounds to the nearest integer with halves rounding up. Inputs are
// never negative here, so math.Round's half-away-from-zero matches.
func round(v float64) int {
	return int(math.Round(v))
}
