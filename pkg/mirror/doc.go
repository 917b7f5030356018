// Package mirror talks to the remote planning mirror: a REPLACE-style sync
// of planned cycles over plain HTTP/JSON, keyed by each cycle's stable
// LegacyID rather than its local ID (which may be regenerated whenever a
// cycle is discarded and replanned).
package mirror
