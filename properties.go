package collider

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type PropsType int

const (
	PROP_TYPE_STRING PropsType = iota
	PROP_TYPE_INT
	PROP_TYPE_FLOAT
	PROP_TYPE_BOOL
	PROP_TYPE_ARRAY
	PROP_TYPE_MAP
	PROP_TYPE_NULL
)

type PropsValue struct {
	Type  PropsType
	Value interface{}
}

// Properties is node metadata parsed into typed key/value pairs.
type Properties map[string]PropsValue

// ParseProperties decodes metadata text. The text must be a single JSON
// object; anything else is an error.
func ParseProperties(raw string) (Properties, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode metadata failed: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode metadata failed: trailing data after object")
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("decode metadata failed: expected an object, got %s", jsonKind(v))
	}
	return propsFromMap(obj)
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case []interface{}:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func propsFromMap(m map[string]interface{}) (Properties, error) {
	props := make(Properties, len(m))
	for key, value := range m {
		pv, err := propsValueFromInterface(value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		props[key] = pv
	}
	return props, nil
}

func propsValueFromInterface(value interface{}) (PropsValue, error) {
	switch v := value.(type) {
	case nil:
		return PropsValue{Type: PROP_TYPE_NULL}, nil
	case string:
		return PropsValue{Type: PROP_TYPE_STRING, Value: v}, nil
	case bool:
		return PropsValue{Type: PROP_TYPE_BOOL, Value: v}, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return PropsValue{Type: PROP_TYPE_INT, Value: i}, nil
		}
		f, err := v.Float64()
		if err != nil {
			return PropsValue{}, err
		}
		return PropsValue{Type: PROP_TYPE_FLOAT, Value: f}, nil
	case []interface{}:
		arr := make([]PropsValue, len(v))
		for i, item := range v {
			pv, err := propsValueFromInterface(item)
			if err != nil {
				return PropsValue{}, fmt.Errorf("item %d: %w", i, err)
			}
			arr[i] = pv
		}
		return PropsValue{Type: PROP_TYPE_ARRAY, Value: arr}, nil
	case map[string]interface{}:
		sub, err := propsFromMap(v)
		if err != nil {
			return PropsValue{}, err
		}
		return PropsValue{Type: PROP_TYPE_MAP, Value: sub}, nil
	}
	return PropsValue{}, fmt.Errorf("unsupported value %T", value)
}

// Flag reports whether key holds a true flag: the JSON boolean true or the
// string "true". Absent keys and every other value read as false; ok is
// false when the key is absent.
func (p Properties) Flag(key string) (on bool, ok bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	switch v.Type {
	case PROP_TYPE_BOOL:
		return v.Value.(bool), true
	case PROP_TYPE_STRING:
		return v.Value.(string) == "true", true
	}
	return false, true
}

// String renders the properties back to JSON with sorted keys.
func (p Properties) String() string {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	if err := enc.Encode(propsToMap(p)); err != nil {
		return "{}"
	}
	return strings.TrimSpace(buf.String())
}

func propsToMap(props Properties) map[string]interface{} {
	result := make(map[string]interface{}, len(props))
	for key, value := range props {
		result[key] = propsValueToInterface(value)
	}
	return result
}

func propsValueToInterface(value PropsValue) interface{} {
	switch value.Type {
	case PROP_TYPE_STRING:
		return value.Value.(string)
	case PROP_TYPE_INT:
		return value.Value.(int64)
	case PROP_TYPE_FLOAT:
		return value.Value.(float64)
	case PROP_TYPE_BOOL:
		return value.Value.(bool)
	case PROP_TYPE_ARRAY:
		arr := value.Value.([]PropsValue)
		result := make([]interface{}, len(arr))
		for i, item := range arr {
			result[i] = propsValueToInterface(item)
		}
		return result
	case PROP_TYPE_MAP:
		return propsToMap(value.Value.(Properties))
	default:
		return nil
	}
}
