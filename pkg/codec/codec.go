package codec

import "github.com/cuemby/statemesh/pkg/machine"

// Codec is the contract the core calls at the persistence boundary. Each
// method is total on its domain: it returns either a successful value or
// a *DecodeError.
type Codec interface {
	EncodeState(s machine.State) (SerializedState, error)
	DecodeState(s SerializedState) (machine.State, error)
	EncodeContext(c machine.Context) (SerializedContext, error)
	DecodeContext(tag machine.StateTag, s SerializedContext) (machine.Context, error)
}

// SerializedState is the wire shape {tag, ...fields}.
type SerializedState map[string]any

// SerializedContext is the wire shape for a context value.
type SerializedContext map[string]any
