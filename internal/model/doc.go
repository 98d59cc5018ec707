// Package model holds the wire-level message and snapshot types the realtime
// layer parses, filters, and hands to consumers. It carries no behavior of its own —
// internal/interest reads EventType off these; internal/submux filters on
// their embedded asset/market keys.
package model
