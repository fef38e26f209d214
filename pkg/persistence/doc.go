/*
Package persistence is the implementation-neutral persisted actor row
and the BoltDB-backed Store that saves and loads it.

A Row is {id, parent_value, parent_context, child_snapshots, updated_at}
where child_snapshots maps child id to a {value, context} pair using the
same Codec as the parent. The core never calls the codec during normal
event processing: only Manager.Save/Load (through EncodeRow/DecodeRow)
touch it. A Store handles already-encoded Rows, and Actor.SyncSnapshot
takes decoded snapshots.
*/
package persistence
