// Package rtds is the client for the venue's Real-Time Data Socket: a
// second realtime surface carrying cryptocurrency price feeds (Binance and
// Chainlink) and a comments stream, independent of the CLOB market/user
// channels. It reuses the same managed connection (internal/wsconn) and the
// same refcounted subscription discipline as the CLOB channels: many
// consumer streams share at most one server subscription per (topic, type),
// an unsubscribe frame goes out only when the last consumer drops, and the
// full topic set is re-subscribed after a reconnect.
package rtds
