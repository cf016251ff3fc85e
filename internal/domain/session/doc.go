// Package session implements the Session bounded context: one authenticated
// session per device, enriched with device/location metadata, subject to
// per-tier FIFO eviction and revocation by the identity domain.
package session
