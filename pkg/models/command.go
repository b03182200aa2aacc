package models

// AICommand is a request sent to the AI bridge.
type AICommand struct {
	ID         string         `json:"id"`
	Command    string         `json:"command"`
	Parameters map[string]any `json:"parameters"`
	Timestamp  int64          `json:"timestamp"`
}

// AIResponse is the outcome of an AI command. Bridge failures are reported
// here with Success false rather than as Go errors.
type AIResponse struct {
	ID        string  `json:"id"`
	Success   bool    `json:"success"`
	Result    any     `json:"result,omitempty"`
	Error     *string `json:"error,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// BridgeStatus is the payload of the bridge's status endpoint.
type BridgeStatus struct {
	BridgeStatus       string   `json:"bridge_status"`
	ComfyUIStatus      string   `json:"comfyui_status"`
	AvailableModels    []string `json:"available_models"`
	ActiveTasks        int      `json:"active_tasks"`
	AvailableWorkflows int      `json:"available_workflows"`
}

// BridgeRunning is the bridge_status value of a healthy bridge.
const BridgeRunning = "running"

// SystemInfo describes the running process.
type SystemInfo map[string]string
