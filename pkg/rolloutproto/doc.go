// Package rolloutproto defines the JSON documents exchanged with the
// rollout server: the control/poll response, the deployment descriptor,
// and the feedback and config messages the device posts back. All fields
// are case-sensitive, matching the server's JSON exactly.
package rolloutproto
