// Package redis provides connection helpers for the go-redis client used by
// the tenant resolution cache.
package redis
