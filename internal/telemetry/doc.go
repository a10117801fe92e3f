// Package telemetry acquires samples from a line-oriented link and hands the
// freshest one to the dashboard.
//
// # Pipeline
//
//	Transport  -> Worker -> Handoff -> dashboard update loop
//
// A Worker owns the connection lifecycle. It discovers a peer by name, dials
// it, and reads one record per line. Each valid record becomes a Sample with a
// sequence number and lands in the Handoff, a single-slot mailbox where a newer
// sample replaces an unread older one.
//
// # Lifecycle
//
//	Idle -> Connecting -> Streaming -> (Disconnecting | Failed) -> Idle
//
// A failed discovery or dial puts the worker in Failed for one backoff
// interval, after which it tries again from Connecting. A read error while
// Streaming goes straight back to Connecting. Malformed records are dropped and
// counted without leaving Streaming. Only Stop ends the loop for good.
//
// # Cancellation
//
// Every blocking step takes the worker's context: discovery, dial, the
// backoff timer, and reads (the link is closed when the context ends so a
// pending Read returns). Stop cancels that context and waits for the worker
// goroutine to exit, so no worker outlives its dashboard.
//
// # Wire Format
//
// Schema v1 is one CSV record per line:
//
//	[V1,]volts,amps,rpm,motorTempF,controllerTempF
//
// Blank lines and lines starting with '#' are ignored.
package telemetry
