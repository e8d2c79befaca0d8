// Package descriptor extracts the fields the orchestrator needs from the
// control and deployment documents that plain JSON decoding does not give
// for free: the sleep cadence, the cancelAction and deploymentBase path
// suffixes buried in href strings, and deployment validation against the
// alternate flash slot's capacity.
package descriptor
