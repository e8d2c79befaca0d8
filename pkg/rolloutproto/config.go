package rolloutproto

import "encoding/json"

// ConfigMessage is the configData push the device sends during
// SEND_CONFIG: its device identity and hardware revision, acknowledged
// with the same closed/success status shape as feedback.
type ConfigMessage struct {
	Mode   string         `json:"mode"`
	Data   ConfigData     `json:"data"`
	ID     string         `json:"id,omitempty"`
	Time   string         `json:"time,omitempty"`
	Status FeedbackStatus `json:"status"`
}

// ConfigData carries the device's VIN (== device identity) and hardware
// revision.
type ConfigData struct {
	VIN        string `json:"VIN"`
	HWRevision string `json:"hwRevision"`
}

// NewMergeConfigMessage builds the ConfigMessage the orchestrator PUTs
// during SEND_CONFIG: mode "merge", closed/success status.
func NewMergeConfigMessage(vin, hwRevision string) ConfigMessage {
	return ConfigMessage{
		Mode: "merge",
		Data: ConfigData{VIN: vin, HWRevision: hwRevision},
		Status: FeedbackStatus{
			Execution: ExecutionClosed,
			Result:    FeedbackResult{Finished: FinishedSuccess},
		},
	}
}

// Encode marshals the config message to JSON.
func (m ConfigMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}
