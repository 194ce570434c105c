// Package authz enforces per-request tenant isolation.
//
// The guard composes with, but stays distinct from, role-based checks: it
// only answers whether the authenticated principal may act within the tenant
// the request resolved to. The principal's authorization scope is a tagged
// value — operator (platform-wide) or bound to a single tenant — and
// Authorize is the one place that matches on it.
package authz
