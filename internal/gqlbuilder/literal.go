package gqlbuilder

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// bareIdentifiers are string values emitted without quotes. GraphQL enum
// values are bare tokens; the upstream gateway rejects them when quoted.
var bareIdentifiers = map[string]struct{}{
	"ASC":  {},
	"DESC": {},
}

// maxLiteralDepth bounds recursion so cyclic input fails instead of hanging.
const maxLiteralDepth = 64

// InvalidLiteralError reports a value that cannot be serialized as a
// GraphQL inline literal.
type InvalidLiteralError struct {
	Value  interface{}
	Reason string
}

func (e *InvalidLiteralError) Error() string {
	return fmt.Sprintf("cannot serialize %T as a GraphQL literal: %s", e.Value, e.Reason)
}

// ToLiteral converts a JSON-like value (nil, bool, number, string, array,
// plain object) into its GraphQL inline-literal text. The upstream gateway
// has no variables channel, so every argument value is embedded as source
// text; ASC and DESC stay bare because they are enum values upstream.
//
// Object keys are emitted in sorted order so structurally identical inputs
// always produce identical text. Non-finite numbers and non-JSON-like
// values return InvalidLiteralError.
func ToLiteral(value interface{}) (string, error) {
	return toLiteral(value, 0)
}

func toLiteral(value interface{}, depth int) (string, error) {
	if depth > maxLiteralDepth {
		return "", &InvalidLiteralError{Value: value, Reason: "nesting too deep (cyclic input?)"}
	}

	switch v := value.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		return stringLiteral(v)
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return floatLiteral(float64(v))
	case float64:
		return floatLiteral(v)
	case []interface{}:
		return arrayLiteral(v, depth)
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return arrayLiteral(items, depth)
	case map[string]interface{}:
		return objectLiteral(v, depth)
	default:
		return "", &InvalidLiteralError{Value: value, Reason: "not a JSON-like value"}
	}
}

func stringLiteral(s string) (string, error) {
	if _, bare := bareIdentifiers[s]; bare {
		return s, nil
	}
	// JSON string quoting is valid GraphQL string syntax.
	quoted, err := json.Marshal(s)
	if err != nil {
		return "", &InvalidLiteralError{Value: s, Reason: err.Error()}
	}
	return string(quoted), nil
}

func floatLiteral(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", &InvalidLiteralError{Value: f, Reason: "non-finite number"}
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func arrayLiteral(items []interface{}, depth int) (string, error) {
	parts := make([]string, len(items))
	for i, item := range items {
		lit, err := toLiteral(item, depth+1)
		if err != nil {
			return "", err
		}
		parts[i] = lit
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

func objectLiteral(obj map[string]interface{}, depth int) (string, error) {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, key := range keys {
		lit, err := toLiteral(obj[key], depth+1)
		if err != nil {
			return "", err
		}
		// Object keys become bare identifiers, never quoted.
		parts[i] = key + ": " + lit
	}
	return "{ " + strings.Join(parts, ", ") + " }", nil
}
