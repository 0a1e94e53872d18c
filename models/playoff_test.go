package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketByType(t *testing.T) {
	p := &PlayoffData{
		Wildcard: Bracket{Type: BracketWildcard},
		Upper:    Bracket{Type: BracketUpper},
		Lower:    Bracket{Type: BracketLower},
		Final:    Bracket{Type: BracketFinal},
	}

	for _, bt := range []BracketType{BracketWildcard, BracketUpper, BracketLower, BracketFinal} {
		br := p.BracketByType(bt)
		require.NotNil(t, br, "bracket %s", bt)
		assert.Equal(t, bt, br.Type)
	}
	assert.Nil(t, p.BracketByType("group-stage"))

	// BracketByType hands out pointers into the aggregate, not copies.
	p.BracketByType(BracketUpper).SlotIDs = append(p.BracketByType(BracketUpper).SlotIDs, "ub-slot-r1-1")
	assert.Equal(t, []string{"ub-slot-r1-1"}, p.Upper.SlotIDs)
}

func TestValidMatchFormat(t *testing.T) {
	assert.True(t, ValidMatchFormat(FormatBo1))
	assert.True(t, ValidMatchFormat(FormatBo3))
	assert.True(t, ValidMatchFormat(FormatBo5))
	assert.False(t, ValidMatchFormat("bo7"))
	assert.False(t, ValidMatchFormat(""))
}

func TestTouch(t *testing.T) {
	p := &PlayoffData{}
	p.Touch()
	assert.False(t, p.UpdatedAt.IsZero())
}
