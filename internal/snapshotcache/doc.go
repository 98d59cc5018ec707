// Package snapshotcache is an optional, pgx-backed local store of the most
// recent orderbook snapshot per asset. A consumer whose broadcast stream
// reports a lag reconciles by fetching the latest snapshot here (or
// re-requesting one over REST) rather than attempting to replay the deltas
// it missed.
//
// The cache is a single upsert-by-asset snapshot table; readers only ever
// want the latest row per asset.
package snapshotcache
