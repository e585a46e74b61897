// Package bus provides a tag-keyed observer registry used to fan out
// protocol events to interested listeners.
//
// An Arena client owns two independent Bus instances: one for outgoing
// requests, one for incoming responses, so the two tag namespaces can
// never collide. Both are reset at the start of every connection
// lifecycle so stale bindings from a previous connection cannot leak.
//
// Publish is synchronous and delivers to listeners in subscription
// order. Unsubscribing via the returned handle is idempotent and
// removes exactly that listener.
package bus
