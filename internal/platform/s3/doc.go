// Package s3 stores configuration documents in Amazon S3 or an
// S3-compatible object store.
//
// Writes that must not replace an existing document use a conditional
// PutObject (If-None-Match: *), so concurrent initializations cannot
// clobber each other.
package s3
