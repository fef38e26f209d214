package machine

import "maps"

// Context is the per-actor bag of named fields. It is copy-on-write: no
// component mutates a held Context value, every update produces a new one
// via Merge.
type Context map[string]any

// Patch is a partial Context applied against the current Context to form
// the new one, functionally: Merge never mutates either input.
type Patch map[string]any

// Merge returns a new Context with patch's fields overlaid on c. A nil or
// empty patch returns a shallow copy of c unchanged. The receiver is never
// mutated.
func (c Context) Merge(patch Patch) Context {
	out := make(Context, len(c)+len(patch))
	maps.Copy(out, c)
	maps.Copy(out, patch)
	return out
}

// Clone returns a shallow copy of c.
func (c Context) Clone() Context {
	return c.Merge(nil)
}
