package rolloutproto

import (
	"encoding/json"
	"fmt"

	"github.com/rollout-edge/update-agent/pkg/rollout"
)

// DeploymentResponse is the deployment descriptor document: an action id
// and a non-empty list of chunks, each carrying one or more artifacts.
// The orchestrator's DOWNLOAD step (through descriptor.Validate) requires
// exactly one chunk of part
// "bApp" with exactly one artifact; multi-artifact/multi-chunk
// deployments are out of scope.
type DeploymentResponse struct {
	ID         string     `json:"id"`
	Deployment Deployment `json:"deployment"`
}

// Deployment carries the advisory download/update policy tokens and the
// chunk list.
type Deployment struct {
	Download string  `json:"download,omitempty"`
	Update   string  `json:"update,omitempty"`
	Chunks   []Chunk `json:"chunks"`
}

// Chunk describes a single software module within the deployment.
type Chunk struct {
	Part      string     `json:"part"`
	Name      string     `json:"name,omitempty"`
	Version   string     `json:"version,omitempty"`
	Artifacts []Artifact `json:"artifacts"`
}

// Artifact describes a single downloadable file within a chunk.
type Artifact struct {
	Filename string          `json:"filename"`
	Size     int64           `json:"size"`
	Hashes   ArtifactHashes  `json:"hashes"`
	Links    ArtifactLinks   `json:"_links"`
}

// ArtifactHashes are carried through for a future verification step; the
// core download path does not verify them — signature verification
// beyond what the bootloader performs is out of scope here.
type ArtifactHashes struct {
	SHA1   string `json:"sha1,omitempty"`
	MD5    string `json:"md5,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
}

// ArtifactLinks holds the download link(s) for an artifact.
type ArtifactLinks struct {
	DownloadHTTP *Link `json:"download-http,omitempty"`
	MD5sumHTTP   *Link `json:"md5sum-http,omitempty"`
}

// ActionID returns the deployment's numeric action id.
func (d DeploymentResponse) ActionID() (rollout.ActionID, error) {
	id, err := rollout.ParseActionID(d.ID)
	if err != nil {
		return 0, fmt.Errorf("rolloutproto: invalid deployment id %q: %w", d.ID, err)
	}
	return id, nil
}

// DecodeDeploymentResponse parses a deployment descriptor document.
func DecodeDeploymentResponse(data []byte) (DeploymentResponse, error) {
	var dr DeploymentResponse
	if err := json.Unmarshal(data, &dr); err != nil {
		return DeploymentResponse{}, err
	}
	return dr, nil
}
