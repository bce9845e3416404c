// Package audit records trust and identity decisions made by DeskVault.
//
// Changes to host confirmations, the device ID, the keypair and the peer
// list are appended to a JSON Lines trail next to the config partitions:
//
//	<config dir>/audit.jsonl
//
// Each entry carries a UTC timestamp, the operation name and whichever of
// device ID, host, peer and key fingerprint apply.
//
// # Failure Handling
//
// Audit logging is best-effort. A trail that cannot be written never fails
// the operation being recorded.
//
// # Reading Logs
//
// Use ReadEntries() to parse the trail. Malformed lines are skipped to
// tolerate partial writes.
package audit
