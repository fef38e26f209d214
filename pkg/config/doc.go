/*
Package config loads a YAML declaration of a Codec's per-field
transforms, configured per state-tag and per context field, and
compiles it into a codec.TransformTable.

	# transforms.yaml
	state_fields:
	  Loading.startedAt: date_millis
	context_fields:
	  updatedAt: date_millis

Only "date_millis" is built in today; it is the default date encoding.
The table is otherwise empty, every field round-trips as plain JSON
unless named here.
*/
package config
