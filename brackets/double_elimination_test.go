package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cienszki/automatic-tournament-sub001/models"
)

func buildTestPlayoff(t *testing.T) *models.PlayoffData {
	t.Helper()
	p, err := NewDoubleEliminationGenerator().Generate(GenerateParams{ID: "p1", Name: "Summer Major"})
	require.NoError(t, err)
	return p
}

func TestGenerate_TopologyCompleteness(t *testing.T) {
	p := buildTestPlayoff(t)

	assert.Len(t, p.Wildcard.SlotIDs, 4)
	assert.Len(t, p.Wildcard.MatchIDs, 2)

	assert.Len(t, p.Upper.SlotIDs, 14) // 8 + 4 + 2 across 3 rounds
	assert.Len(t, p.Upper.MatchIDs, 7) // 4 + 2 + 1

	assert.Len(t, p.Lower.SlotIDs, 28)  // 8 + 8 + 4 + 4 + 2 + 2 across 6 rounds
	assert.Len(t, p.Lower.MatchIDs, 14) // 4 + 4 + 2 + 2 + 1 + 1

	assert.Len(t, p.Final.SlotIDs, 3)
	assert.Len(t, p.Final.MatchIDs, 1)

	assert.Len(t, p.Slots, 4+14+28+3)
	assert.Len(t, p.Matches, 2+7+14+1)

	assert.Equal(t, 4, p.WildcardSlots)
	assert.False(t, p.IsSetup)
	assert.Equal(t, int64(1), p.Version)

	lowerRounds := make(map[int]int)
	for _, id := range p.Lower.SlotIDs {
		lowerRounds[p.Slots[id].Round]++
	}
	assert.Equal(t, map[int]int{1: 8, 2: 8, 3: 4, 4: 4, 5: 2, 6: 2}, lowerRounds)
}

func TestGenerate_WinnerSlotCoverage(t *testing.T) {
	p := buildTestPlayoff(t)

	for id, m := range p.Matches {
		require.NotEmpty(t, m.WinnerSlotID, "match %s has no winner slot", id)
		_, ok := p.Slots[m.WinnerSlotID]
		assert.True(t, ok, "match %s winner slot %s does not resolve", id, m.WinnerSlotID)
	}
}

func TestGenerate_LoserSlotCoverage(t *testing.T) {
	p := buildTestPlayoff(t)

	for id, m := range p.Matches {
		if m.BracketType == models.BracketUpper {
			require.NotEmpty(t, m.LoserSlotID, "upper match %s has no loser slot", id)
			_, ok := p.Slots[m.LoserSlotID]
			assert.True(t, ok, "match %s loser slot %s does not resolve", id, m.LoserSlotID)
		} else {
			// Wildcard, lower-bracket and grand-final losses eliminate.
			assert.Empty(t, m.LoserSlotID, "match %s should not have a loser slot", id)
		}
	}
}

func TestGenerate_CrossBracketWiring(t *testing.T) {
	p := buildTestPlayoff(t)

	// Wildcard winners land in the two reserved lower round-1 slots.
	assert.Equal(t, "lb-slot-r1-7", p.Matches["wc-r1-m1"].WinnerSlotID)
	assert.Equal(t, "lb-slot-r1-8", p.Matches["wc-r1-m2"].WinnerSlotID)

	// Upper round-1: winners up, losers down.
	assert.Equal(t, "ub-slot-r2-1", p.Matches["ub-r1-m1"].WinnerSlotID)
	assert.Equal(t, "lb-slot-r2-5", p.Matches["ub-r1-m1"].LoserSlotID)
	assert.Equal(t, "ub-slot-r2-4", p.Matches["ub-r1-m4"].WinnerSlotID)
	assert.Equal(t, "lb-slot-r2-8", p.Matches["ub-r1-m4"].LoserSlotID)

	// Upper round-2 losers drop into lower round 4.
	assert.Equal(t, "lb-slot-r4-3", p.Matches["ub-r2-m1"].LoserSlotID)
	assert.Equal(t, "lb-slot-r4-4", p.Matches["ub-r2-m2"].LoserSlotID)

	// The upper final feeds the grand final; its loser stays alive in the
	// lower final.
	upperFinal := p.Matches["ub-r3-m1"]
	assert.Equal(t, "gf-slot-r1-1", upperFinal.WinnerSlotID)
	assert.Equal(t, "lb-slot-r6-2", upperFinal.LoserSlotID)

	// The lower final feeds the grand final's second slot.
	assert.Equal(t, "gf-slot-r1-2", p.Matches["lb-r6-m1"].WinnerSlotID)

	// The grand final winner slot is terminal: no match reads from it.
	champion := p.Matches["gf-r1-m1"].WinnerSlotID
	assert.Equal(t, "gf-slot-r2-1", champion)
	for id, m := range p.Matches {
		assert.NotEqual(t, champion, m.TeamASlotID, "match %s reads the champion slot", id)
		assert.NotEqual(t, champion, m.TeamBSlotID, "match %s reads the champion slot", id)
	}
}

func TestGenerate_SlotLabels(t *testing.T) {
	p := buildTestPlayoff(t)

	assert.Equal(t, "Upper Seed 1", p.Slots["ub-slot-r1-1"].Label)
	assert.Equal(t, "Lower Seed 6", p.Slots["lb-slot-r1-6"].Label)
	assert.Equal(t, "Wildcard Seed 3", p.Slots["wc-slot-r1-3"].Label)
	assert.Equal(t, "Winner of W1A", p.Slots["lb-slot-r1-7"].Label)
	assert.Equal(t, "Winner of U1A", p.Slots["ub-slot-r2-1"].Label)
	assert.Equal(t, "Loser of U1A", p.Slots["lb-slot-r2-5"].Label)
	assert.Equal(t, "Loser of U3A", p.Slots["lb-slot-r6-2"].Label)
	assert.Equal(t, "Winner of G1A", p.Slots["gf-slot-r2-1"].Label)
}

func TestGenerate_DefaultFormats(t *testing.T) {
	p := buildTestPlayoff(t)

	assert.Equal(t, models.FormatBo1, p.Matches["wc-r1-m1"].Format)
	assert.Equal(t, models.FormatBo1, p.Matches["ub-r1-m1"].Format)
	assert.Equal(t, models.FormatBo1, p.Matches["lb-r1-m3"].Format)
	assert.Equal(t, models.FormatBo3, p.Matches["ub-r2-m1"].Format)
	assert.Equal(t, models.FormatBo3, p.Matches["lb-r6-m1"].Format)
	assert.Equal(t, models.FormatBo5, p.Matches["gf-r1-m1"].Format)
}

func TestGenerate_AllMatchesScheduledAndEmpty(t *testing.T) {
	p := buildTestPlayoff(t)

	for id, m := range p.Matches {
		assert.Equal(t, models.MatchStatusScheduled, m.Status, "match %s", id)
		assert.Nil(t, m.Result, "match %s", id)
	}
	for id, s := range p.Slots {
		assert.Empty(t, s.TeamID, "slot %s", id)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := NewDoubleEliminationGenerator()
	a, err := g.Generate(GenerateParams{ID: "x", Name: "Major"})
	require.NoError(t, err)
	b, err := g.Generate(GenerateParams{ID: "x", Name: "Major"})
	require.NoError(t, err)

	// Structural identity modulo timestamps.
	b.CreatedAt = a.CreatedAt
	b.UpdatedAt = a.UpdatedAt
	assert.Equal(t, a, b)
}

func TestGenerate_RequiresID(t *testing.T) {
	_, err := NewDoubleEliminationGenerator().Generate(GenerateParams{Name: "Major"})
	assert.Error(t, err)
}

func TestMatchCode(t *testing.T) {
	assert.Equal(t, "U1A", MatchCode(models.BracketUpper, 1, 1))
	assert.Equal(t, "L2D", MatchCode(models.BracketLower, 2, 4))
	assert.Equal(t, "W1B", MatchCode(models.BracketWildcard, 1, 2))
	assert.Equal(t, "G1A", MatchCode(models.BracketFinal, 1, 1))
}
