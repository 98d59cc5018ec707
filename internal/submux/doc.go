// Package submux implements the subscription multiplexer: a refcounted
// registry that collapses overlapping consumer demands into at-most-one
// server subscription per key, re-subscribes the full key set after a
// reconnect, and hands each subscriber a Stream that yields only the
// messages it asked for.
package submux
