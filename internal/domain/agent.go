package domain

// AgentState is the label shown on a simulated agent card.
type AgentState string

const (
	AgentScanning   AgentState = "Scanning"
	AgentSimulating AgentState = "Simulating"
	AgentMapping    AgentState = "Mapping"
	AgentChecking   AgentState = "Checking"
	AgentProjecting AgentState = "Projecting"
	AgentEstimating AgentState = "Estimating"
	AgentFlagging   AgentState = "Flagging"
	AgentCompleted  AgentState = "Completed"
)

// Valid reports whether s is a known agent state.
func (s AgentState) Valid() bool {
	switch s {
	case AgentScanning, AgentSimulating, AgentMapping, AgentChecking,
		AgentProjecting, AgentEstimating, AgentFlagging, AgentCompleted:
		return true
	}
	return false
}

// AgentStatus is one decorative background-worker line of the agent console.
type AgentStatus struct {
	Name        string     `json:"name" yaml:"name"`
	Status      AgentState `json:"status" yaml:"status"`
	Inputs      string     `json:"inputs" yaml:"inputs"`
	Computation string     `json:"computation" yaml:"computation"`
	Outputs     string     `json:"outputs" yaml:"outputs"`
}
