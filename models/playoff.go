package models

import "time"

type BracketType string

const (
	BracketWildcard BracketType = "wildcard"
	BracketUpper    BracketType = "upper"
	BracketLower    BracketType = "lower"
	BracketFinal    BracketType = "final"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
)

type MatchFormat string

const (
	FormatBo1 MatchFormat = "bo1"
	FormatBo3 MatchFormat = "bo3"
	FormatBo5 MatchFormat = "bo5"
)

// ValidMatchFormat reports whether f is one of the supported series formats.
func ValidMatchFormat(f MatchFormat) bool {
	switch f {
	case FormatBo1, FormatBo3, FormatBo5:
		return true
	}
	return false
}

// Slot is an addressable bracket position. It is empty until filled either by
// direct admin seeding or by a match advancing its winner/loser into it.
type Slot struct {
	ID          string      `json:"id" bson:"id"`
	Position    int         `json:"position" bson:"position"`
	BracketType BracketType `json:"bracket_type" bson:"bracket_type"`
	Round       int         `json:"round" bson:"round"`
	TeamID      string      `json:"team_id,omitempty" bson:"team_id,omitempty"`
	Label       string      `json:"label" bson:"label"`
}

type MatchResult struct {
	WinnerID    string    `json:"winner_id" bson:"winner_id"`
	LoserID     string    `json:"loser_id" bson:"loser_id"`
	TeamAScore  int       `json:"team_a_score" bson:"team_a_score"`
	TeamBScore  int       `json:"team_b_score" bson:"team_b_score"`
	CompletedAt time.Time `json:"completed_at" bson:"completed_at"`
}

// Match references its participants through slots, never through teams
// directly. WinnerSlotID is always set; LoserSlotID is empty exactly for
// lower-bracket, wildcard and grand-final matches, where a loss eliminates.
type Match struct {
	ID           string       `json:"id" bson:"id"`
	BracketType  BracketType  `json:"bracket_type" bson:"bracket_type"`
	Round        int          `json:"round" bson:"round"`
	Position     int          `json:"position" bson:"position"`
	TeamASlotID  string       `json:"team_a_slot_id" bson:"team_a_slot_id"`
	TeamBSlotID  string       `json:"team_b_slot_id" bson:"team_b_slot_id"`
	WinnerSlotID string       `json:"winner_slot_id" bson:"winner_slot_id"`
	LoserSlotID  string       `json:"loser_slot_id,omitempty" bson:"loser_slot_id,omitempty"`
	Format       MatchFormat  `json:"format" bson:"format"`
	Status       MatchStatus  `json:"status" bson:"status"`
	Result       *MatchResult `json:"result,omitempty" bson:"result,omitempty"`
}

// Bracket groups the slot and match ids of one bracket type, in display
// order. The objects themselves live in the aggregate's flat maps so that
// cross-bracket lookups never have to scan bracket by bracket.
type Bracket struct {
	Type     BracketType `json:"type" bson:"type"`
	SlotIDs  []string    `json:"slot_ids" bson:"slot_ids"`
	MatchIDs []string    `json:"match_ids" bson:"match_ids"`
}

// PlayoffData is the aggregate root. Every admin operation loads it in full,
// mutates it in memory and writes it back as one document; Version is bumped
// on each write and checked by the repository (optimistic lock).
type PlayoffData struct {
	ID            string            `json:"id" bson:"_id"`
	Name          string            `json:"name" bson:"name"`
	Version       int64             `json:"version" bson:"version"`
	Wildcard      Bracket           `json:"wildcard" bson:"wildcard"`
	Upper         Bracket           `json:"upper" bson:"upper"`
	Lower         Bracket           `json:"lower" bson:"lower"`
	Final         Bracket           `json:"final" bson:"final"`
	Slots         map[string]*Slot  `json:"slots" bson:"slots"`
	Matches       map[string]*Match `json:"matches" bson:"matches"`
	WildcardSlots int               `json:"wildcard_slots" bson:"wildcard_slots"`
	IsSetup       bool              `json:"is_setup" bson:"is_setup"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at"`
}

func (p *PlayoffData) Brackets() []*Bracket {
	return []*Bracket{&p.Wildcard, &p.Upper, &p.Lower, &p.Final}
}

func (p *PlayoffData) BracketByType(t BracketType) *Bracket {
	switch t {
	case BracketWildcard:
		return &p.Wildcard
	case BracketUpper:
		return &p.Upper
	case BracketLower:
		return &p.Lower
	case BracketFinal:
		return &p.Final
	}
	return nil
}

func (p *PlayoffData) Slot(id string) (*Slot, bool) {
	s, ok := p.Slots[id]
	return s, ok
}

func (p *PlayoffData) Match(id string) (*Match, bool) {
	m, ok := p.Matches[id]
	return m, ok
}

// Touch stamps the aggregate as modified.
func (p *PlayoffData) Touch() {
	p.UpdatedAt = time.Now().UTC()
}
