// Package transport provides the HTTP session the orchestrator uses to talk
// to the rollout server.
//
// The transport layer handles:
//   - DNS resolution with a bounded retry budget for devices that come up
//     before their network stack has a working resolver
//   - TLS 1.2 connections pinned to a single trusted CA, with SNI set from
//     the configured host
//   - A single long-lived HTTP/1.1 connection per Session, reused across
//     the control, config, feedback and deployment-base requests of one
//     probe cycle
//   - Chunked response delivery through a per-request handler, so the
//     caller can stream a large artifact response straight into a flash
//     slot instead of buffering it
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      JSON / binary bodies      │
//	├────────────────────────────────┤
//	│           HTTP/1.1             │
//	├────────────────────────────────┤
//	│           TLS 1.2              │
//	├────────────────────────────────┤
//	│             TCP                │
//	└────────────────────────────────┘
//
// # Timeouts
//
// Every request is bounded by a single 300-second deadline covering DNS
// resolution, TLS handshake, and the full response body.
package transport
