// Package keygen generates random secrets for configuration defaults.
//
// Secrets are drawn uniformly from a caller-supplied alphabet using
// crypto/rand, so they are suitable for initial passwords and for
// resource-name suffixes that must not collide.
package keygen
