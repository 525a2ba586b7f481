package tagged

import (
	"encoding/json"
	"math"
	"strconv"
)

// Wire tags understood by the decoder.
const (
	tagInteger = "integerValue"
	tagDouble  = "doubleValue"
	tagBoolean = "booleanValue"
	tagString  = "stringValue"
	tagArray   = "arrayValue"
	tagMap     = "mapValue"
	tagNull    = "nullValue"
)

// knownTags lists every tag the store may emit. The last four have no variant
// of their own and decode to Null.
var knownTags = map[string]bool{
	tagInteger: true,
	tagDouble:  true,
	tagBoolean: true,
	tagString:  true,
	tagArray:   true,
	tagMap:     true,
	tagNull:    true,

	"timestampValue": true,
	"referenceValue": true,
	"geoPointValue":  true,
	"bytesValue":     true,
}

// Decode converts a raw JSON-like node into a Value. It never fails: unknown
// or malformed input decodes to Null or to the zero value of the tag's type.
func Decode(raw any) Value {
	switch n := raw.(type) {
	case nil:
		return Null()
	case map[string]any:
		return decodeObject(n)
	case []any:
		out := make([]Value, len(n))
		for i, e := range n {
			out[i] = Decode(e)
		}
		return Array(out)
	case json.Number:
		return decodeNumber(n)
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return Integer(int64(n))
	case int32:
		return Integer(int64(n))
	case int64:
		return Integer(n)
	case bool:
		return Bool(n)
	case string:
		return String(n)
	default:
		return Null()
	}
}

// DecodeFields decodes a document's field payload.
func DecodeFields(fields map[string]any) map[string]Value {
	out := make(map[string]Value, len(fields))
	for k, raw := range fields {
		out[k] = Decode(raw)
	}
	return out
}

func decodeObject(n map[string]any) Value {
	var tag string
	tags := 0
	for k := range n {
		if knownTags[k] {
			tag = k
			tags++
		}
	}
	switch {
	case tags == 0:
		fields := make(map[string]Value, len(n))
		for k, e := range n {
			fields[k] = Decode(e)
		}
		return Map(fields)
	case tags > 1:
		return Null()
	}
	// Non-tag keys beside a single tag are ignored.
	return decodeTagged(tag, n[tag])
}

// decodeTagged dispatches a payload to its variant decoder. Every decoder
// returns its own zero value on a malformed payload.
func decodeTagged(tag string, payload any) Value {
	switch tag {
	case tagInteger:
		return decodeInteger(payload)
	case tagDouble:
		return decodeDouble(payload)
	case tagBoolean:
		return decodeBoolean(payload)
	case tagString:
		return decodeString(payload)
	case tagArray:
		return decodeArray(payload)
	case tagMap:
		return decodeMap(payload)
	default:
		return Null()
	}
}

func decodeInteger(payload any) Value {
	switch p := payload.(type) {
	case string:
		if i, err := strconv.ParseInt(p, 10, 64); err == nil {
			return Integer(i)
		}
	case json.Number:
		if i, err := p.Int64(); err == nil {
			return Integer(i)
		}
	case float64:
		if p == math.Trunc(p) && !math.IsInf(p, 0) {
			return Integer(int64(p))
		}
	case int64:
		return Integer(p)
	case int:
		return Integer(int64(p))
	}
	return Integer(0)
}

// decodeDouble treats "NaN" and "Infinity" payloads as malformed so one bad
// field cannot poison a team's sums.
func decodeDouble(payload any) Value {
	switch p := payload.(type) {
	case float64:
		return finite(p)
	case json.Number:
		if f, err := p.Float64(); err == nil {
			return finite(f)
		}
	case string:
		if f, err := strconv.ParseFloat(p, 64); err == nil {
			return finite(f)
		}
	case int64:
		return Float(float64(p))
	case int:
		return Float(float64(p))
	}
	return Float(0)
}

func decodeBoolean(payload any) Value {
	if b, ok := payload.(bool); ok {
		return Bool(b)
	}
	return Bool(false)
}

func decodeString(payload any) Value {
	if s, ok := payload.(string); ok {
		return String(s)
	}
	return String("")
}

func decodeArray(payload any) Value {
	body, ok := payload.(map[string]any)
	if !ok {
		return Array(nil)
	}
	values, ok := body["values"].([]any)
	if !ok {
		return Array(nil)
	}
	out := make([]Value, len(values))
	for i, e := range values {
		out[i] = Decode(e)
	}
	return Array(out)
}

func decodeMap(payload any) Value {
	body, ok := payload.(map[string]any)
	if !ok {
		return Map(nil)
	}
	fields, ok := body["fields"].(map[string]any)
	if !ok {
		return Map(nil)
	}
	return Map(DecodeFields(fields))
}

// decodeNumber maps a plain JSON number to Integer when it is integral and
// fits, Float otherwise.
func decodeNumber(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return Integer(i)
	}
	if f, err := n.Float64(); err == nil {
		return finite(f)
	}
	return Null()
}

// finite returns Float(f), or Float(0) when f is NaN or infinite.
func finite(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Float(0)
	}
	return Float(f)
}
