package brackets

import (
	"errors"
	"fmt"
	"time"

	"github.com/Cienszki/automatic-tournament-sub001/models"
)

// Tournament size is a compile-time constant: 8 upper seeds, 6 direct lower
// seeds and 4 wildcard entrants. The builder is not a generic N-team
// generator.
const (
	UpperSeeds    = 8
	LowerSeeds    = 6
	WildcardSeeds = 4
	LowerRounds   = 6
	UpperRounds   = 3
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() Generator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

func slotID(bracket string, round, pos int) string {
	return fmt.Sprintf("%s-slot-r%d-%d", bracket, round, pos)
}

func matchID(bracket string, round, pos int) string {
	return fmt.Sprintf("%s-r%d-m%d", bracket, round, pos)
}

// MatchCode is the short display code for a match, e.g. "U1A" for the first
// upper-bracket round-1 match. Slot labels ("Winner of U1A") are derived
// from these codes once, at build time, and persisted on the slot.
func MatchCode(bracketType models.BracketType, round, pos int) string {
	var letter string
	switch bracketType {
	case models.BracketWildcard:
		letter = "W"
	case models.BracketUpper:
		letter = "U"
	case models.BracketLower:
		letter = "L"
	case models.BracketFinal:
		letter = "G"
	}
	return fmt.Sprintf("%s%d%c", letter, round, 'A'+pos-1)
}

func defaultFormat(bracketType models.BracketType, round int) models.MatchFormat {
	if bracketType == models.BracketFinal {
		return models.FormatBo5
	}
	if round == 1 {
		return models.FormatBo1
	}
	return models.FormatBo3
}

type builder struct {
	playoff *models.PlayoffData
}

func (b *builder) addSlot(bracket string, t models.BracketType, round, pos int, label string) *models.Slot {
	s := &models.Slot{
		ID:          slotID(bracket, round, pos),
		Position:    pos,
		BracketType: t,
		Round:       round,
		Label:       label,
	}
	b.playoff.Slots[s.ID] = s
	br := b.playoff.BracketByType(t)
	br.SlotIDs = append(br.SlotIDs, s.ID)
	return s
}

func (b *builder) addMatch(bracket string, t models.BracketType, round, pos int, teamA, teamB, winner, loser string) *models.Match {
	m := &models.Match{
		ID:           matchID(bracket, round, pos),
		BracketType:  t,
		Round:        round,
		Position:     pos,
		TeamASlotID:  teamA,
		TeamBSlotID:  teamB,
		WinnerSlotID: winner,
		LoserSlotID:  loser,
		Format:       defaultFormat(t, round),
		Status:       models.MatchStatusScheduled,
	}
	b.playoff.Matches[m.ID] = m
	br := b.playoff.BracketByType(t)
	br.MatchIDs = append(br.MatchIDs, m.ID)
	return m
}

// Generate builds the four brackets: wildcard round feeding two lower-bracket
// round-1 slots, an 8-seed upper bracket whose losers drop into lower rounds
// 2, 4 and 6, a 6-round lower bracket, and the grand final. Wildcard and
// lower-bracket losses are eliminating, so only upper matches carry a loser
// destination.
func (g *DoubleEliminationGenerator) Generate(params GenerateParams) (*models.PlayoffData, error) {
	if params.ID == "" {
		return nil, errors.New("playoff id is required")
	}

	now := time.Now().UTC()
	b := &builder{playoff: &models.PlayoffData{
		ID:            params.ID,
		Name:          params.Name,
		Version:       1,
		Wildcard:      models.Bracket{Type: models.BracketWildcard},
		Upper:         models.Bracket{Type: models.BracketUpper},
		Lower:         models.Bracket{Type: models.BracketLower},
		Final:         models.Bracket{Type: models.BracketFinal},
		Slots:         make(map[string]*models.Slot),
		Matches:       make(map[string]*models.Match),
		WildcardSlots: WildcardSeeds,
		CreatedAt:     now,
		UpdatedAt:     now,
	}}

	// Wildcard entrants.
	for i := 1; i <= WildcardSeeds; i++ {
		b.addSlot("wc", models.BracketWildcard, 1, i, fmt.Sprintf("Wildcard Seed %d", i))
	}

	// Upper bracket slots: round 1 seeds, then one destination slot per
	// feeding match in rounds 2 and 3.
	for i := 1; i <= UpperSeeds; i++ {
		b.addSlot("ub", models.BracketUpper, 1, i, fmt.Sprintf("Upper Seed %d", i))
	}
	for i := 1; i <= 4; i++ {
		b.addSlot("ub", models.BracketUpper, 2, i, "Winner of "+MatchCode(models.BracketUpper, 1, i))
	}
	for i := 1; i <= 2; i++ {
		b.addSlot("ub", models.BracketUpper, 3, i, "Winner of "+MatchCode(models.BracketUpper, 2, i))
	}

	// Lower bracket slots.
	// Round 1: six direct seeds plus two slots reserved for wildcard winners.
	for i := 1; i <= LowerSeeds; i++ {
		b.addSlot("lb", models.BracketLower, 1, i, fmt.Sprintf("Lower Seed %d", i))
	}
	b.addSlot("lb", models.BracketLower, 1, 7, "Winner of "+MatchCode(models.BracketWildcard, 1, 1))
	b.addSlot("lb", models.BracketLower, 1, 8, "Winner of "+MatchCode(models.BracketWildcard, 1, 2))
	// Round 2: four round-1 winners meet the four upper round-1 losers.
	for i := 1; i <= 4; i++ {
		b.addSlot("lb", models.BracketLower, 2, i, "Winner of "+MatchCode(models.BracketLower, 1, i))
	}
	for i := 1; i <= 4; i++ {
		b.addSlot("lb", models.BracketLower, 2, 4+i, "Loser of "+MatchCode(models.BracketUpper, 1, i))
	}
	// Round 3: round-2 winners.
	for i := 1; i <= 4; i++ {
		b.addSlot("lb", models.BracketLower, 3, i, "Winner of "+MatchCode(models.BracketLower, 2, i))
	}
	// Round 4: two round-3 winners meet the two upper round-2 losers.
	for i := 1; i <= 2; i++ {
		b.addSlot("lb", models.BracketLower, 4, i, "Winner of "+MatchCode(models.BracketLower, 3, i))
	}
	for i := 1; i <= 2; i++ {
		b.addSlot("lb", models.BracketLower, 4, 2+i, "Loser of "+MatchCode(models.BracketUpper, 2, i))
	}
	// Round 5: round-4 winners.
	for i := 1; i <= 2; i++ {
		b.addSlot("lb", models.BracketLower, 5, i, "Winner of "+MatchCode(models.BracketLower, 4, i))
	}
	// Round 6, the lower final: round-5 winner against the upper-final
	// loser, who stays alive for exactly one more match.
	b.addSlot("lb", models.BracketLower, 6, 1, "Winner of "+MatchCode(models.BracketLower, 5, 1))
	b.addSlot("lb", models.BracketLower, 6, 2, "Loser of "+MatchCode(models.BracketUpper, 3, 1))

	// Grand final slots: upper champion, lower champion, tournament champion.
	b.addSlot("gf", models.BracketFinal, 1, 1, "Winner of "+MatchCode(models.BracketUpper, 3, 1))
	b.addSlot("gf", models.BracketFinal, 1, 2, "Winner of "+MatchCode(models.BracketLower, 6, 1))
	b.addSlot("gf", models.BracketFinal, 2, 1, "Winner of "+MatchCode(models.BracketFinal, 1, 1))

	// Wildcard matches. Losers are eliminated: the wildcard round is a
	// play-in for the lower bracket.
	b.addMatch("wc", models.BracketWildcard, 1, 1,
		slotID("wc", 1, 1), slotID("wc", 1, 2), slotID("lb", 1, 7), "")
	b.addMatch("wc", models.BracketWildcard, 1, 2,
		slotID("wc", 1, 3), slotID("wc", 1, 4), slotID("lb", 1, 8), "")

	// Upper bracket matches.
	for i := 1; i <= 4; i++ {
		b.addMatch("ub", models.BracketUpper, 1, i,
			slotID("ub", 1, 2*i-1), slotID("ub", 1, 2*i),
			slotID("ub", 2, i), slotID("lb", 2, 4+i))
	}
	for i := 1; i <= 2; i++ {
		b.addMatch("ub", models.BracketUpper, 2, i,
			slotID("ub", 2, 2*i-1), slotID("ub", 2, 2*i),
			slotID("ub", 3, i), slotID("lb", 4, 2+i))
	}
	b.addMatch("ub", models.BracketUpper, 3, 1,
		slotID("ub", 3, 1), slotID("ub", 3, 2),
		slotID("gf", 1, 1), slotID("lb", 6, 2))

	// Lower bracket matches. No loser destinations: a lower-bracket loss is
	// terminal.
	for i := 1; i <= 4; i++ {
		b.addMatch("lb", models.BracketLower, 1, i,
			slotID("lb", 1, 2*i-1), slotID("lb", 1, 2*i),
			slotID("lb", 2, i), "")
	}
	for i := 1; i <= 4; i++ {
		b.addMatch("lb", models.BracketLower, 2, i,
			slotID("lb", 2, i), slotID("lb", 2, 4+i),
			slotID("lb", 3, i), "")
	}
	for i := 1; i <= 2; i++ {
		b.addMatch("lb", models.BracketLower, 3, i,
			slotID("lb", 3, 2*i-1), slotID("lb", 3, 2*i),
			slotID("lb", 4, i), "")
	}
	for i := 1; i <= 2; i++ {
		b.addMatch("lb", models.BracketLower, 4, i,
			slotID("lb", 4, i), slotID("lb", 4, 2+i),
			slotID("lb", 5, i), "")
	}
	b.addMatch("lb", models.BracketLower, 5, 1,
		slotID("lb", 5, 1), slotID("lb", 5, 2),
		slotID("lb", 6, 1), "")
	b.addMatch("lb", models.BracketLower, 6, 1,
		slotID("lb", 6, 1), slotID("lb", 6, 2),
		slotID("gf", 1, 2), "")

	// Grand final. The winner slot is terminal: nothing is fed by it.
	b.addMatch("gf", models.BracketFinal, 1, 1,
		slotID("gf", 1, 1), slotID("gf", 1, 2),
		slotID("gf", 2, 1), "")

	if err := Validate(b.playoff); err != nil {
		return nil, fmt.Errorf("generated topology failed validation: %w", err)
	}

	return b.playoff, nil
}
