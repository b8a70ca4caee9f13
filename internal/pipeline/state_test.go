package pipeline

import (
	"testing"

	"github.com/moamenhredeen/relcheck/internal/scoring"
	"github.com/stretchr/testify/assert"
)

func TestRunStateIDs(t *testing.T) {
	s := NewRunState(scoring.NewLedger(10))

	assert.False(t, s.Has(InputUserID))
	s.Set(InputUserID, 7)
	id, ok := s.ID(InputUserID)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	s.Set(InputUserID, 0)
	assert.False(t, s.Has(InputUserID))
}

func TestRunStateMissing(t *testing.T) {
	s := NewRunState(scoring.NewLedger(10))
	s.Set(InputCategoryID, 1)

	missing := s.Missing([]Input{InputUserID, InputCategoryID, InputProductID})
	assert.Equal(t, []Input{InputUserID, InputProductID}, missing)
	assert.Empty(t, s.Missing(nil))
}
