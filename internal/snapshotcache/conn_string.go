package snapshotcache

import (
	"fmt"
	"strings"

	"github.com/cloblabs/clob-go/internal/config"
)

// BuildConnString renders cfg as a keyword/value DSN, the form
// pgxpool.ParseConfig accepts alongside URLs. Pool sizing travels in the
// DSN too, so Connect needs no post-parse fixups.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	pairs := []string{
		"host=" + quoteDSNValue(cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		"dbname=" + quoteDSNValue(cfg.Name),
		"user=" + quoteDSNValue(cfg.User),
		"sslmode=" + sslMode,
	}
	if cfg.Password != "" {
		pairs = append(pairs, "password="+quoteDSNValue(cfg.Password))
	}
	if cfg.MinConns > 0 {
		pairs = append(pairs, fmt.Sprintf("pool_min_conns=%d", cfg.MinConns))
	}
	if cfg.MaxConns > 0 {
		pairs = append(pairs, fmt.Sprintf("pool_max_conns=%d", cfg.MaxConns))
	}
	return strings.Join(pairs, " ")
}

// quoteDSNValue single-quotes a value when it contains characters the
// keyword/value form cannot carry bare, escaping embedded quotes and
// backslashes.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\") {
		return v
	}
	escaped := strings.ReplaceAll(v, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}
