package tester

import (
	"errors"
	"testing"

	"github.com/moamenhredeen/relcheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passed(body string) models.CheckResult {
	return models.CheckResult{Description: "check", Passed: true, StatusCode: 200, Body: []byte(body)}
}

func TestHasRelation(t *testing.T) {
	v := NewValidator([]string{"ownerName", "owner", "user"}, []string{"categoryName", "category"})

	assert.True(t, v.HasRelation(RuleOwner, map[string]any{"user": map[string]any{"id": 1}}))
	assert.True(t, v.HasRelation(RuleOwner, map[string]any{"ownerName": "Ana"}))
	assert.True(t, v.HasRelation(RuleCategory, map[string]any{"category": nil}))
	assert.False(t, v.HasRelation(RuleCategory, map[string]any{"categories": []any{}}))
	assert.False(t, v.HasRelation("unknown", map[string]any{"user": 1}))
}

func TestValidatorFieldsAreCopied(t *testing.T) {
	owner := []string{"ownerName", "user"}
	v := NewValidator(owner, []string{"category"})
	owner[0] = "changed"

	assert.Equal(t, []string{"ownerName", "user"}, v.Fields(RuleOwner))
	assert.Equal(t, []string{"category"}, v.Fields(RuleCategory))
	assert.Nil(t, v.Fields("unknown"))
}

func TestHasPopulated(t *testing.T) {
	v := NewValidator(nil, nil)

	assert.True(t, v.HasPopulated("category", map[string]any{"category": map[string]any{"id": 1}}))
	assert.False(t, v.HasPopulated("category", map[string]any{"category": nil}))
	assert.False(t, v.HasPopulated("category", map[string]any{}))
}

func TestNameMatchesIsExact(t *testing.T) {
	v := NewValidator(nil, nil)
	want := "Laptop Test Relations - Updated"

	assert.True(t, v.NameMatches(want, map[string]any{"name": want}))
	assert.False(t, v.NameMatches(want, map[string]any{"name": "laptop test relations - updated"}))
	assert.False(t, v.NameMatches(want, map[string]any{"name": want + " "}))
	assert.False(t, v.NameMatches(want, map[string]any{}))
}

func TestDecodeObject(t *testing.T) {
	obj, err := DecodeObject(passed(`{"id":42,"owner":{"id":7}}`))
	require.NoError(t, err)

	id, ok := IDOf(obj)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestDecodeObjectWrongShape(t *testing.T) {
	_, err := DecodeObject(passed(`[1,2]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedBody))

	_, err = DecodeObject(passed(`null`))
	assert.True(t, errors.Is(err, ErrMalformedBody))
}

func TestDecodeArray(t *testing.T) {
	arr, err := DecodeArray(passed(`[{"id":7,"name":"Ana"}]`))
	require.NoError(t, err)
	require.Len(t, arr, 1)

	_, err = DecodeArray(passed(`not json`))
	assert.True(t, errors.Is(err, ErrMalformedBody))
}

func TestDecodeFailedCheck(t *testing.T) {
	r := models.CheckResult{Description: "x", Kind: models.KindStatus, Error: "500"}
	_, err := DecodeArray(r)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestIDOf(t *testing.T) {
	id, ok := IDOf(map[string]any{"id": "15"})
	assert.True(t, ok)
	assert.Equal(t, int64(15), id)

	id, ok = IDOf(map[string]any{"id": 9.0})
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)

	_, ok = IDOf(map[string]any{"id": 9.5})
	assert.False(t, ok)

	_, ok = IDOf(map[string]any{})
	assert.False(t, ok)
}
