package container

import (
	"encoding/json"
	"fmt"
)

// ParamType is the GTM parameter type discriminator.
type ParamType string

const (
	TypeTemplate ParamType = "TEMPLATE"
	TypeBoolean  ParamType = "BOOLEAN"
	TypeInteger  ParamType = "INTEGER"
	TypeList     ParamType = "LIST"
	TypeMap      ParamType = "MAP"
)

// Parameter is one typed entry of a tag, trigger, variable or client.
// LIST parameters carry List, MAP parameters carry Map, every other type carries Value.
type Parameter struct {
	Type  ParamType   `json:"type"`
	Key   string      `json:"key,omitempty"`
	Value string      `json:"value,omitempty"`
	List  []Parameter `json:"list,omitempty"`
	Map   []Parameter `json:"map,omitempty"`
}

// Pair is an ordered key/value entry of a MAP parameter.
type Pair struct {
	Key   string
	Value string
}

// Param encodes value under key according to typ.
// LIST accepts []Parameter; MAP accepts []Parameter or []Pair; every other type
// takes the fmt.Sprint form of value. A value of the wrong shape leaves the body
// empty: callers are trusted.
func Param(typ ParamType, key string, value any) Parameter {
	p := Parameter{Type: typ, Key: key}
	switch typ {
	case TypeList:
		p.List, _ = value.([]Parameter)
	case TypeMap:
		switch v := value.(type) {
		case []Parameter:
			p.Map = v
		case []Pair:
			p.Map = make([]Parameter, 0, len(v))
			for _, kv := range v {
				p.Map = append(p.Map, Template(kv.Key, kv.Value))
			}
		}
	default:
		p.Value = fmt.Sprint(value)
	}
	return p
}

// Template is a TEMPLATE parameter; value may contain {{placeholders}}.
func Template(key string, value any) Parameter {
	return Param(TypeTemplate, key, value)
}

// Boolean is a BOOLEAN parameter.
func Boolean(key string, v bool) Parameter {
	return Param(TypeBoolean, key, v)
}

// Integer is an INTEGER parameter.
func Integer(key string, v int) Parameter {
	return Param(TypeInteger, key, v)
}

// List is a LIST parameter.
func List(key string, items ...Parameter) Parameter {
	if items == nil {
		items = []Parameter{}
	}
	return Param(TypeList, key, items)
}

// Entry is an unkeyed MAP parameter built from ordered pairs, the shape GTM
// uses for table rows.
func Entry(pairs ...Pair) Parameter {
	return Param(TypeMap, "", pairs)
}

// nameValue is a {name, value} table row (fieldsToSet, eventParameters, user data).
func nameValue(name string, value any) Parameter {
	return Entry(Pair{"name", name}, Pair{"value", fmt.Sprint(value)})
}

// keyValue is a {key, value} table row (lookup tables).
func keyValue(key string, value any) Parameter {
	return Entry(Pair{"key", key}, Pair{"value", fmt.Sprint(value)})
}

// MarshalJSON always emits value for scalar types, so empty configuration
// fields appear as "" instead of disappearing.
func (p Parameter) MarshalJSON() ([]byte, error) {
	var v any
	switch p.Type {
	case TypeList:
		v = struct {
			Type ParamType   `json:"type"`
			Key  string      `json:"key,omitempty"`
			List []Parameter `json:"list"`
		}{p.Type, p.Key, nonNil(p.List)}
	case TypeMap:
		v = struct {
			Type ParamType   `json:"type"`
			Key  string      `json:"key,omitempty"`
			Map  []Parameter `json:"map"`
		}{p.Type, p.Key, nonNil(p.Map)}
	default:
		v = struct {
			Type  ParamType `json:"type"`
			Key   string    `json:"key,omitempty"`
			Value string    `json:"value"`
		}{p.Type, p.Key, p.Value}
	}
	return json.Marshal(v)
}

func nonNil(ps []Parameter) []Parameter {
	if ps == nil {
		return []Parameter{}
	}
	return ps
}
