// Package auth authenticates principals and binds them to a tenant context
// at login time.
//
// The host the login request arrived on decides which tenant's credential
// namespace applies: reserved platform hosts admit only operator-domain
// emails, tenant hosts filter the credential lookup by the resolved tenant,
// and unmappable hosts fail fast. Issued access and refresh tokens embed the
// tenant id (or its absence, for operators) so per-request isolation checks
// never re-resolve the host.
package auth
