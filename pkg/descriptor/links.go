package descriptor

import (
	"strings"

	"github.com/rollout-edge/update-agent/pkg/rollout"
)

// maxMarkerCopy is the 49-byte ceiling placed on the copied substring for
// both the cancelAction and deploymentBase markers.
const maxMarkerCopy = 49

const (
	cancelActionMarker   = "cancelAction/"
	deploymentBaseMarker = "deploymentBase/"
)

// boundedCopyFrom returns the substring of href starting at marker, capped
// at maxMarkerCopy bytes. It reports false if marker does not occur in
// href. A Go string always carries its own length, so there is no
// NUL-termination hazard here, but the byte ceiling is still enforced to
// match the wire format's documented bound.
func boundedCopyFrom(href, marker string) (string, bool) {
	idx := strings.Index(href, marker)
	if idx < 0 {
		return "", false
	}
	s := href[idx:]
	if len(s) > maxMarkerCopy {
		s = s[:maxMarkerCopy]
	}
	return s, true
}

// ExtractCancelActionID extracts the ActionID from a cancelAction href
// such as ".../cancelAction/7".
func ExtractCancelActionID(href string) (rollout.ActionID, error) {
	copied, ok := boundedCopyFrom(href, cancelActionMarker)
	if !ok {
		return 0, metadataErr("descriptor: cancelAction marker not found in " + href)
	}

	parts := strings.Split(copied, "/")
	if len(parts) < 2 {
		return 0, metadataErr("descriptor: cancelAction href missing id segment")
	}

	id, err := rollout.ParseActionID(parts[1])
	if err != nil || !id.Valid() {
		return 0, metadataErr("descriptor: cancelAction id is not a positive integer: " + parts[1])
	}
	return id, nil
}

// ExtractDeploymentBaseSuffix extracts the deploymentBase path suffix from
// href. An empty href (no deploymentBase link at all) is not an error: it
// reports "" with a nil error, and the caller transitions to NoUpdate.
func ExtractDeploymentBaseSuffix(href string) (string, error) {
	if href == "" {
		return "", nil
	}

	copied, ok := boundedCopyFrom(href, deploymentBaseMarker)
	if !ok {
		return "", metadataErr("descriptor: deploymentBase marker not found in " + href)
	}
	return copied, nil
}
