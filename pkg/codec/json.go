package codec

import (
	"encoding/json"
	"fmt"

	"github.com/cuemby/statemesh/pkg/machine"
)

// JSONCodec is the default Codec: it round-trips State.Data and Context
// through encoding/json (so Data/Context values must themselves be
// JSON-marshalable), applying a declared TransformTable per field.
type JSONCodec struct {
	Transforms TransformTable
}

// NewJSONCodec builds a JSONCodec with the given per-field transforms.
// A nil table is valid; every field then round-trips as plain JSON.
func NewJSONCodec(transforms TransformTable) *JSONCodec {
	if transforms == nil {
		transforms = TransformTable{}
	}
	return &JSONCodec{Transforms: transforms}
}

func toFieldMap(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *JSONCodec) EncodeState(s machine.State) (SerializedState, error) {
	fields, err := toFieldMap(s.Data)
	if err != nil {
		return nil, NewDecodeError(string(s.Tag), fmt.Sprintf("encode data: %v", err))
	}
	out := SerializedState{"tag": string(s.Tag)}
	for k, v := range fields {
		ev, err := c.Transforms.applyEncode(statePath(string(s.Tag), k), v)
		if err != nil {
			return nil, NewDecodeError(statePath(string(s.Tag), k), err.Error())
		}
		out[k] = ev
	}
	return out, nil
}

func (c *JSONCodec) DecodeState(s SerializedState) (machine.State, error) {
	rawTag, ok := s["tag"]
	if !ok {
		return machine.State{}, NewDecodeError("tag", "missing required field")
	}
	tag, ok := rawTag.(string)
	if !ok || tag == "" {
		return machine.State{}, NewDecodeError("tag", "tag must be a non-empty string")
	}

	fields := make(map[string]any, len(s)-1)
	for k, v := range s {
		if k == "tag" {
			continue
		}
		dv, err := c.Transforms.applyDecode(statePath(tag, k), v)
		if err != nil {
			return machine.State{}, NewDecodeError(statePath(tag, k), err.Error())
		}
		fields[k] = dv
	}
	return machine.State{Tag: machine.StateTag(tag), Data: fields}, nil
}

func (c *JSONCodec) EncodeContext(ctx machine.Context) (SerializedContext, error) {
	out := make(SerializedContext, len(ctx))
	for k, v := range ctx {
		ev, err := c.Transforms.applyEncode(contextPath(k), v)
		if err != nil {
			return nil, NewDecodeError(contextPath(k), err.Error())
		}
		out[k] = ev
	}
	return out, nil
}

func (c *JSONCodec) DecodeContext(_ machine.StateTag, s SerializedContext) (machine.Context, error) {
	out := make(machine.Context, len(s))
	for k, v := range s {
		dv, err := c.Transforms.applyDecode(contextPath(k), v)
		if err != nil {
			return nil, NewDecodeError(contextPath(k), err.Error())
		}
		out[k] = dv
	}
	return out, nil
}
