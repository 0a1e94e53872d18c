package brackets

import (
	"fmt"
	"strings"

	"github.com/Cienszki/automatic-tournament-sub001/models"
)

// ValidationError collects every structural problem found in one pass so a
// hand-edited or partially migrated aggregate can be diagnosed in full.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid playoff topology: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the structural invariants of an aggregate before any
// advancement is run against it:
//
//   - every bracket id list resolves into the flat maps, with matching
//     bracket types;
//   - every match's team and winner slot references resolve, and the loser
//     reference resolves when present;
//   - upper matches have a loser destination, all other matches have none;
//   - no slot has more than one writer (a slot fed by two matches would be
//     silently overwritten during advancement);
//   - a result is present exactly on completed matches.
func Validate(p *models.PlayoffData) error {
	var problems []string
	addf := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	seenSlots := make(map[string]bool, len(p.Slots))
	seenMatches := make(map[string]bool, len(p.Matches))

	for _, br := range p.Brackets() {
		for _, id := range br.SlotIDs {
			s, ok := p.Slots[id]
			if !ok {
				addf("bracket %s lists unknown slot %s", br.Type, id)
				continue
			}
			if s.BracketType != br.Type {
				addf("slot %s has bracket type %s but is listed under %s", id, s.BracketType, br.Type)
			}
			if seenSlots[id] {
				addf("slot %s is listed in more than one bracket", id)
			}
			seenSlots[id] = true
		}
		for _, id := range br.MatchIDs {
			m, ok := p.Matches[id]
			if !ok {
				addf("bracket %s lists unknown match %s", br.Type, id)
				continue
			}
			if m.BracketType != br.Type {
				addf("match %s has bracket type %s but is listed under %s", id, m.BracketType, br.Type)
			}
			if seenMatches[id] {
				addf("match %s is listed in more than one bracket", id)
			}
			seenMatches[id] = true
		}
	}
	for id := range p.Slots {
		if !seenSlots[id] {
			addf("slot %s belongs to no bracket", id)
		}
	}
	for id := range p.Matches {
		if !seenMatches[id] {
			addf("match %s belongs to no bracket", id)
		}
	}

	writers := make(map[string][]string)
	for _, m := range p.Matches {
		if _, ok := p.Slots[m.TeamASlotID]; !ok {
			addf("match %s references unknown team A slot %q", m.ID, m.TeamASlotID)
		}
		if _, ok := p.Slots[m.TeamBSlotID]; !ok {
			addf("match %s references unknown team B slot %q", m.ID, m.TeamBSlotID)
		}

		if m.WinnerSlotID == "" {
			addf("match %s has no winner slot", m.ID)
		} else if _, ok := p.Slots[m.WinnerSlotID]; !ok {
			addf("match %s references unknown winner slot %q", m.ID, m.WinnerSlotID)
		} else {
			writers[m.WinnerSlotID] = append(writers[m.WinnerSlotID], m.ID)
		}

		switch m.BracketType {
		case models.BracketUpper:
			if m.LoserSlotID == "" {
				addf("upper match %s has no loser slot", m.ID)
			}
		default:
			if m.LoserSlotID != "" {
				addf("%s match %s must not have a loser slot", m.BracketType, m.ID)
			}
		}
		if m.LoserSlotID != "" {
			if _, ok := p.Slots[m.LoserSlotID]; !ok {
				addf("match %s references unknown loser slot %q", m.ID, m.LoserSlotID)
			} else {
				writers[m.LoserSlotID] = append(writers[m.LoserSlotID], m.ID)
			}
		}

		if (m.Result != nil) != (m.Status == models.MatchStatusCompleted) {
			addf("match %s has status %s but result presence does not match", m.ID, m.Status)
		}
	}

	for slot, ms := range writers {
		if len(ms) > 1 {
			addf("slot %s is written by %d matches (%s)", slot, len(ms), strings.Join(ms, ", "))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
