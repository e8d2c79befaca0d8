package descriptor

import (
	"strings"

	"github.com/rollout-edge/update-agent/pkg/rolloutproto"
)

// bAppPart is the only chunk "part" token the orchestrator accepts;
// multi-artifact deployments are out of scope.
const bAppPart = "bApp"

// downloadMarker anchors the rewritten download path: the download-HTTP
// URL is rewritten to start at this point and issued against the same
// host.
const downloadMarker = "/DEFAULT/controller/v1"

// maxDownloadPathCopy is the 199-byte ceiling placed on the rewritten
// download path.
const maxDownloadPathCopy = 199

// ValidatedDeployment is the single chunk/artifact pair the orchestrator
// acts on after a deployment descriptor passes validation.
type ValidatedDeployment struct {
	Chunk        rolloutproto.Chunk
	Artifact     rolloutproto.Artifact
	DownloadPath string
}

// Validate checks a deployment descriptor: exactly one chunk of part
// "bApp", exactly one artifact, artifact size within altSlotSize, and a
// download-http link containing the controller/v1 marker.
func Validate(dr rolloutproto.DeploymentResponse, altSlotSize int64) (ValidatedDeployment, error) {
	chunks := dr.Deployment.Chunks
	if len(chunks) != 1 {
		return ValidatedDeployment{}, metadataErr("descriptor: deployment must have exactly one chunk")
	}
	chunk := chunks[0]
	if chunk.Part != bAppPart {
		return ValidatedDeployment{}, metadataErr("descriptor: unknown chunk part " + chunk.Part)
	}
	if len(chunk.Artifacts) != 1 {
		return ValidatedDeployment{}, metadataErr("descriptor: chunk must have exactly one artifact")
	}
	artifact := chunk.Artifacts[0]

	if artifact.Size > altSlotSize {
		return ValidatedDeployment{}, downloadErr("descriptor: artifact size exceeds alternate slot capacity")
	}

	if artifact.Links.DownloadHTTP == nil {
		return ValidatedDeployment{}, metadataErr("descriptor: artifact missing download-http link")
	}
	path, err := rewriteDownloadPath(artifact.Links.DownloadHTTP.Href)
	if err != nil {
		return ValidatedDeployment{}, err
	}

	return ValidatedDeployment{Chunk: chunk, Artifact: artifact, DownloadPath: path}, nil
}

// rewriteDownloadPath finds downloadMarker in href and returns the
// suffix from that point, capped at maxDownloadPathCopy bytes.
func rewriteDownloadPath(href string) (string, error) {
	idx := strings.Index(href, downloadMarker)
	if idx < 0 {
		return "", metadataErr("descriptor: download-http link missing " + downloadMarker + " marker")
	}
	path := href[idx:]
	if len(path) > maxDownloadPathCopy {
		path = path[:maxDownloadPathCopy]
	}
	return path, nil
}
