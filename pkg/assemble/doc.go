// Package assemble implements the two response-body accumulation
// disciplines the orchestrator drives transport.Session.Request with: a
// JSON-accumulating assembler for control, config and deployment
// descriptor responses, and a streaming-to-flash assembler for artifact
// downloads.
package assemble
