// Package restcore is the shared HTTP request engine behind the four REST
// surfaces (rest/clobrest, rest/bridgerest, rest/datarest, rest/gammarest):
// URL assembly, query encoding, optional request signing via a HeaderSigner,
// retry with exponential backoff and jitter, and status-to-error mapping
// into internal/errs kinds.
package restcore
