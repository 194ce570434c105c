// Package slug normalizes human names into identifiers usable as subdomain
// labels and URL segments.
package slug
