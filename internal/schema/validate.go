package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validation errors. Use errors.Is() to check for these in calling code;
// the wrapped message carries the field name for the command result.
var (
	// ErrReadOnly is returned when a write targets a non-writable field.
	ErrReadOnly = errors.New("schema: field is read-only")

	// ErrNotNumeric is returned when a numeric field receives a value that
	// cannot be interpreted as a number.
	ErrNotNumeric = errors.New("schema: field requires a numeric value")

	// ErrBelowMin and ErrAboveMax are returned for out-of-range numerics.
	ErrBelowMin = errors.New("schema: value below declared minimum")
	ErrAboveMax = errors.New("schema: value above declared maximum")

	// ErrNotEnum is returned when an enum field receives a non-string or a
	// string outside the declared allowed set.
	ErrNotEnum = errors.New("schema: value not in enum")

	// ErrNotBinary is returned when a binary field receives something that
	// is neither a boolean nor a recognised on/off token.
	ErrNotBinary = errors.New("schema: field requires a binary value")

	// ErrNotObject and ErrNotArray are returned for composite and list
	// fields receiving the wrong structural type.
	ErrNotObject = errors.New("schema: composite value must be an object")
	ErrNotArray  = errors.New("schema: list value must be an array")
)

// Binary string tokens, matched case-insensitively.
var (
	binaryOnTokens  = map[string]struct{}{"true": {}, "1": {}, "on": {}, "yes": {}}
	binaryOffTokens = map[string]struct{}{"false": {}, "0": {}, "off": {}, "no": {}}
)

// Validate checks and normalises an outbound write.
//
// Unknown field names validate successfully and pass the value through
// unchanged with unknown=true: the service never blocks a write it does
// not understand (forward compatibility with newer firmware mappings).
// Known fields are validated per their manifest type; a failure discards
// the value and never mutates device state.
func (s *Service) Validate(name string, value any) (normalized any, unknown bool, err error) {
	field, ok := s.fieldMap[name]
	if !ok {
		return value, true, nil
	}

	if !field.CanWrite {
		return nil, false, fmt.Errorf("%w: %q", ErrReadOnly, name)
	}

	switch field.Type {
	case TypeNumeric:
		normalized, err = normalizeNumeric(field, value)
	case TypeEnum:
		normalized, err = normalizeEnum(field, value)
	case TypeBinary:
		normalized, err = normalizeBinary(field, value)
	case TypeComposite:
		if _, isObject := value.(map[string]any); !isObject {
			return nil, false, fmt.Errorf("%w: %q", ErrNotObject, name)
		}
		normalized = value
	case TypeList:
		if _, isArray := value.([]any); !isArray {
			return nil, false, fmt.Errorf("%w: %q", ErrNotArray, name)
		}
		normalized = value
	default:
		// Untyped manifest entries pass through unvalidated.
		normalized = value
	}
	return normalized, false, err
}

// normalizeNumeric range-checks a numeric write and snaps integral-step
// fields to integers.
func normalizeNumeric(field *Field, value any) (any, error) {
	n, ok := toFloat(value)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, field.Name)
	}

	if field.ValueMin != nil && n < *field.ValueMin {
		return nil, fmt.Errorf("%w: %q: %v < %v", ErrBelowMin, field.Name, n, *field.ValueMin)
	}
	if field.ValueMax != nil && n > *field.ValueMax {
		return nil, fmt.Errorf("%w: %q: %v > %v", ErrAboveMax, field.Name, n, *field.ValueMax)
	}

	if field.ValueStep == nil || *field.ValueStep == math.Trunc(*field.ValueStep) {
		return int64(math.Round(n)), nil
	}
	return n, nil
}

// normalizeEnum requires an exact string match against the declared allowed
// values when a non-empty set exists.
func normalizeEnum(field *Field, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %q requires an enum string", ErrNotEnum, field.Name)
	}
	if len(field.Values) == 0 {
		return s, nil
	}
	for _, allowed := range field.Values {
		if s == allowed {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q value %q is not allowed", ErrNotEnum, field.Name, s)
}

// normalizeBinary accepts booleans directly, well-known on/off string
// tokens mapped to the field's declared on/off values, and the declared
// on/off values themselves.
func normalizeBinary(field *Field, value any) (any, error) {
	if b, isBool := value.(bool); isBool {
		return b, nil
	}

	if s, isString := value.(string); isString {
		lowered := strings.ToLower(strings.TrimSpace(s))
		if _, on := binaryOnTokens[lowered]; on {
			if field.ValueOn != nil {
				return field.ValueOn, nil
			}
			return true, nil
		}
		if _, off := binaryOffTokens[lowered]; off {
			if field.ValueOff != nil {
				return field.ValueOff, nil
			}
			return false, nil
		}
	}

	if field.ValueOn != nil && value == field.ValueOn {
		return value, nil
	}
	if field.ValueOff != nil && value == field.ValueOff {
		return value, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotBinary, field.Name)
}

// toFloat coerces JSON numbers, Go integers, and numeric strings.
func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// matchesEnableToken reports whether an enum literal reads as an
// enable/disable token. "disable" is tested first so "Disable (default)"
// never matches an enable scan.
func matchesEnableToken(value string, wantEnabled bool) bool {
	lowered := strings.ToLower(value)
	isDisable := strings.Contains(lowered, "disable")
	if wantEnabled {
		return !isDisable && strings.Contains(lowered, "enable")
	}
	return isDisable
}
