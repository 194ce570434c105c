// Package requestid correlates log records belonging to the same request
// via an X-Request-ID header, context helpers and a logger extractor.
package requestid
