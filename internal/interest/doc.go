// Package interest implements the compact message-kind bitset and the
// shallow pre-scan parser: a single-object frame is pre-scanned for its
// event_type field before the rest of the payload is materialized, so an
// uninteresting event
// costs one shallow decode rather than a full unmarshal; an array frame is
// fully parsed, then filtered. The bitset is monotonic: subscribes only ever
// OR bits in.
package interest
