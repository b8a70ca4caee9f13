package tester

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/moamenhredeen/relcheck/internal/models"
)

// Rule names understood by the validator
const (
	RuleOwner    = "owner"
	RuleCategory = "category"
)

// Validator inspects decoded response bodies using named relation rules. A
// rule matches when any of its fields is present in the body.
type Validator struct {
	rules map[string][]string
}

// NewValidator creates a validator with the owner and category rules
func NewValidator(ownerFields, categoryFields []string) *Validator {
	return &Validator{
		rules: map[string][]string{
			RuleOwner:    append([]string(nil), ownerFields...),
			RuleCategory: append([]string(nil), categoryFields...),
		},
	}
}

// Fields returns the fields accepted by rule
func (v *Validator) Fields(rule string) []string {
	return v.rules[rule]
}

// HasRelation reports whether body contains any field of rule. Presence is
// enough, a null value still counts.
func (v *Validator) HasRelation(rule string, body map[string]any) bool {
	for _, field := range v.rules[rule] {
		if _, ok := body[field]; ok {
			return true
		}
	}
	return false
}

// HasPopulated reports whether field is present in body with a non-null value
func (v *Validator) HasPopulated(field string, body map[string]any) bool {
	val, ok := body[field]
	return ok && val != nil
}

// NameMatches reports whether body echoes exactly the expected name
func (v *Validator) NameMatches(expected string, body map[string]any) bool {
	name, ok := body["name"].(string)
	return ok && name == expected
}

// DecodeObject decodes the body of a passed check as a JSON object
func DecodeObject(r models.CheckResult) (map[string]any, error) {
	var obj map[string]any
	if err := decode(r, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, bodyError(r, fmt.Errorf("expected object, got null"))
	}
	return obj, nil
}

// DecodeArray decodes the body of a passed check as a JSON array
func DecodeArray(r models.CheckResult) ([]any, error) {
	var arr []any
	if err := decode(r, &arr); err != nil {
		return nil, err
	}
	if arr == nil {
		return nil, bodyError(r, fmt.Errorf("expected array, got null"))
	}
	return arr, nil
}

func decode(r models.CheckResult, v any) error {
	if !r.Passed {
		return Err(r)
	}
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return bodyError(r, err)
	}
	return nil
}

func bodyError(r models.CheckResult, err error) error {
	return &CheckError{
		Kind:        models.KindBody,
		Description: r.Description,
		Err:         fmt.Errorf("%w: %v", ErrMalformedBody, err),
	}
}

// IDOf extracts the numeric "id" field of obj
func IDOf(obj map[string]any) (int64, bool) {
	switch id := obj["id"].(type) {
	case json.Number:
		n, err := id.Int64()
		return n, err == nil
	case float64:
		return int64(id), id == float64(int64(id))
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// StringField returns obj[key] when it is a string, or fallback
func StringField(obj map[string]any, key, fallback string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return fallback
}
