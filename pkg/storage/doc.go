// Package storage stores tenant media objects in S3-compatible object
// storage, namespaced per tenant.
package storage
