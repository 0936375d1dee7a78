package scanorch

// ManagerAgentID is the reserved agent id for the Wazuh manager itself.
const ManagerAgentID = "000"

// Agent identifies the fleet member an event originated from. It is stable
// across every event in a scan.
type Agent struct {
	ID      string `json:"id"`
	IP      string `json:"ip,omitempty"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// IsManager reports whether this Agent is the Wazuh manager.
func (a Agent) IsManager() bool { return a.ID == ManagerAgentID }
