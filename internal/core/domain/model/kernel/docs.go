// Package kernel holds value objects shared by several aggregates.
//
// The package includes:
//   - UUID: identifier of queued notifications
//   - BroadcastRef: address of an order's message in the broadcast channel
//
// Both are immutable and safe for concurrent use. Their zero values are
// meaningful only where documented (BroadcastRef zero means "not posted").
package kernel
