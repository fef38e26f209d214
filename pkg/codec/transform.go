package codec

import "time"

// FieldTransform converts a single field's in-memory value to and from
// its wire representation. Transforms compose: a TransformTable applies
// one per declared field path.
type FieldTransform struct {
	Encode func(v any) (any, error)
	Decode func(v any) (any, error)
}

// TransformTable maps "tag.field" and "context.field" paths to the
// transform applied during encode/decode, configured per state-tag and
// per context field.
type TransformTable map[string]FieldTransform

// DateMillis transforms a time.Time field to/from integer milliseconds
// since the Unix epoch, the default date encoding.
var DateMillis = FieldTransform{
	Encode: func(v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return v, nil
		}
		return t.UnixMilli(), nil
	},
	Decode: func(v any) (any, error) {
		switch n := v.(type) {
		case float64:
			return time.UnixMilli(int64(n)).UTC(), nil
		case int64:
			return time.UnixMilli(n).UTC(), nil
		default:
			return v, nil
		}
	},
}

func statePath(tag, field string) string {
	return tag + "." + field
}

func contextPath(field string) string {
	return "context." + field
}

func (t TransformTable) applyEncode(path string, v any) (any, error) {
	xf, ok := t[path]
	if !ok || xf.Encode == nil {
		return v, nil
	}
	return xf.Encode(v)
}

func (t TransformTable) applyDecode(path string, v any) (any, error) {
	xf, ok := t[path]
	if !ok || xf.Decode == nil {
		return v, nil
	}
	return xf.Decode(v)
}
