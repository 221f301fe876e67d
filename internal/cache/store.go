// Package cache implements the fail-open, read-through content cache.
//
// Every upstream content read goes through a Gateway: the value is looked up
// under a deterministic key, produced on a miss and written back with a fixed
// TTL. The backing store is allowed to be down. Lookup and write failures are
// logged and counted, never returned to the caller.
package cache

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Store is the minimal key/value surface the Gateway needs.
// Get reports a miss as (nil, false, nil); only transport failures are errors.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AdminStore adds the introspection and bulk-delete calls used by Admin.
// Patterns and returned keys are relative to the store's namespace.
type AdminStore interface {
	Keys(ctx context.Context, pattern string) ([]string, error)
	Delete(ctx context.Context, keys ...string) (int64, error)
	Info(ctx context.Context) (string, error)
}

// Key joins a resource kind and its ordered path parameters with ':'.
// Parameters are query-escaped, so a ':' or '%' inside one cannot shift
// the boundaries and two distinct parameter lists never share a key.
func Key(kind string, params ...string) string {
	var b strings.Builder
	b.WriteString(kind)
	for _, p := range params {
		b.WriteByte(':')
		b.WriteString(url.QueryEscape(p))
	}
	return b.String()
}

// kindOf returns the resource kind of a key, used as a metrics label.
func kindOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
