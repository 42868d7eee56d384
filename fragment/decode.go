package fragment

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Decode parses a UTF-8 JSON "rendered fragment" string into a Fragment
// tree, validating the grammar of spec §4.6: hole keys are decimal,
// non-negative, without leading zeros; hole keys present on a fragment
// that carries inline Statics must fall in [0, holes); comprehension
// rows must share one arity.
func Decode(data []byte) (*Fragment, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Kind: MalformedJSON, Message: err.Error(), Cause: err}
	}

	top, ok := raw.(map[string]any)
	if !ok {
		return nil, schemaErr("$", "top-level fragment must be a JSON object")
	}
	return decodeObject(top, "$")
}

func decodeObject(obj map[string]any, path string) (*Fragment, error) {
	f := newFragment()

	if sv, ok := obj["s"]; ok {
		switch sv := sv.(type) {
		case []any:
			ss, err := toStringSlice(sv, path+".s")
			if err != nil {
				return nil, err
			}
			f.Statics = ss
			f.HasStatics = true
		case float64:
			id := int(sv)
			f.TemplateID = &id
		default:
			return nil, schemaErr(path+".s", "\"s\" must be an array of strings or an integer template id")
		}
	}

	if pv, ok := obj["p"]; ok {
		pm, ok := pv.(map[string]any)
		if !ok {
			return nil, schemaErr(path+".p", "\"p\" must be an object")
		}
		templates := make(map[int][]string, len(pm))
		for k, v := range pm {
			id, err := parseIntKey(k)
			if err != nil {
				return nil, schemaErr(path+".p", "template pool keys must be small non-negative integers: "+err.Error())
			}
			arr, ok := v.([]any)
			if !ok {
				return nil, schemaErr(path+".p."+k, "template pool entries must be arrays of strings")
			}
			ss, err := toStringSlice(arr, path+".p."+k)
			if err != nil {
				return nil, err
			}
			templates[id] = ss
		}
		f.Templates = templates
		f.HasTemplates = true
	}

	if rv, ok := obj["r"]; ok {
		n, ok := rv.(float64)
		if !ok {
			return nil, schemaErr(path+".r", "\"r\" must be an integer")
		}
		f.Reply = int(n)
		f.HasReply = true
	}

	var rowArity = -1
	if dv, ok := obj["d"]; ok {
		darr, ok := dv.([]any)
		if !ok {
			return nil, schemaErr(path+".d", "\"d\" must be an array of arrays")
		}
		rows := make([][]Value, 0, len(darr))
		for ri, rowRaw := range darr {
			rowArr, ok := rowRaw.([]any)
			if !ok {
				return nil, schemaErr(fmt.Sprintf("%s.d[%d]", path, ri), "each comprehension row must be an array")
			}
			if rowArity == -1 {
				rowArity = len(rowArr)
			} else if len(rowArr) != rowArity {
				return nil, schemaErr(fmt.Sprintf("%s.d[%d]", path, ri), "comprehension rows must have equal arity")
			}
			row := make([]Value, len(rowArr))
			for hi, hv := range rowArr {
				v, err := decodeHoleValue(hv, fmt.Sprintf("%s.d[%d][%d]", path, ri, hi))
				if err != nil {
					return nil, err
				}
				row[hi] = v
			}
			rows = append(rows, row)
		}
		f.Rows = rows
		f.HasRows = true
		if f.HasStatics && rowArity != -1 && rowArity != f.HoleCount() {
			return nil, schemaErr(path+".d", "comprehension row arity does not match the statics hole count")
		}
	}

	maxHole := -1
	for k, v := range obj {
		if k == "s" || k == "p" || k == "d" || k == "r" {
			continue
		}
		id, err := parseIntKey(k)
		if err != nil {
			return nil, schemaErr(path, fmt.Sprintf("unexpected key %q: %v", k, err))
		}
		if f.HasRows {
			return nil, schemaErr(path, "a comprehension fragment cannot also declare hole keys")
		}
		val, err := decodeHoleValue(v, fmt.Sprintf("%s.%s", path, k))
		if err != nil {
			return nil, err
		}
		f.Dynamic[id] = val
		if id > maxHole {
			maxHole = id
		}
	}

	if f.HasStatics && !f.HasRows {
		holes := f.HoleCount()
		for id := range f.Dynamic {
			if id < 0 || id >= holes {
				return nil, schemaErr(path, fmt.Sprintf("hole key %d is out of range for %d hole(s)", id, holes))
			}
		}
	}

	return f, nil
}

func decodeHoleValue(v any, path string) (Value, error) {
	switch v := v.(type) {
	case string:
		return String(v), nil
	case map[string]any:
		sub, err := decodeObject(v, path)
		if err != nil {
			return Value{}, err
		}
		return Nested(sub), nil
	default:
		return Value{}, schemaErr(path, "hole value must be a string or a fragment object")
	}
}

func toStringSlice(arr []any, path string) ([]string, error) {
	out := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, schemaErr(fmt.Sprintf("%s[%d]", path, i), "statics entries must be strings")
		}
		out[i] = s
	}
	return out, nil
}

// parseIntKey parses a decimal, non-negative, leading-zero-free integer
// key per spec §6 ("integer-string keys are decimal, no leading zeros,
// no sign").
func parseIntKey(k string) (int, error) {
	if k == "" {
		return 0, fmt.Errorf("empty key")
	}
	if len(k) > 1 && k[0] == '0' {
		return 0, fmt.Errorf("leading zero in key %q", k)
	}
	for _, r := range k {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a decimal integer key: %q", k)
		}
	}
	return strconv.Atoi(k)
}
