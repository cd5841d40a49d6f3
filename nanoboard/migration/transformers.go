package migration

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/nanoboard/types"
)

// Transformer is a function that transforms a value
type Transformer func(value interface{}) (interface{}, error)

// TransformerRegistry maps transformer names to their implementations
var TransformerRegistry = map[string]Transformer{
	"toString":       ToString,
	"toInt":          ToInt,
	"toLowerCase":    ToLowerCase,
	"trim":           Trim,
	"statusLabel":    StatusLabel,
	"priorityLabel":  PriorityLabel,
	"flowStatusName": FlowStatusName,
}

// ToString converts any value to string
func ToString(value interface{}) (interface{}, error) {
	if value == nil {
		return "", nil
	}
	return fmt.Sprintf("%v", value), nil
}

// ToInt converts a value to integer
func ToInt(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return int(f), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", value)
	}
}

// ToLowerCase converts a string to lowercase
func ToLowerCase(value interface{}) (interface{}, error) {
	if value == nil {
		return "", nil
	}
	str, ok := value.(string)
	if !ok {
		str = fmt.Sprintf("%v", value)
	}
	return strings.ToLower(str), nil
}

// Trim removes leading and trailing whitespace from a string
func Trim(value interface{}) (interface{}, error) {
	if value == nil {
		return "", nil
	}
	str, ok := value.(string)
	if !ok {
		str = fmt.Sprintf("%v", value)
	}
	return strings.TrimSpace(str), nil
}

// StatusLabel rewrites legacy status spellings ("done", "in_progress") to
// their display labels
func StatusLabel(value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("status must be a string, got %T", value)
	}
	st, err := types.ParseStatus(s)
	if err != nil {
		return nil, err
	}
	return string(st), nil
}

// PriorityLabel normalises the case of a priority ("high" -> "High")
func PriorityLabel(value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("priority must be a string, got %T", value)
	}
	p, err := types.ParsePriority(s)
	if err != nil {
		return nil, err
	}
	return string(p), nil
}

// FlowStatusName normalises the case of a flow status ("draft" -> "Draft")
func FlowStatusName(value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("flow status must be a string, got %T", value)
	}
	fs, err := types.ParseFlowStatus(s)
	if err != nil {
		return nil, err
	}
	return string(fs), nil
}
