package scanorch

// ScanContext is the frozen per-event view over a normalized inbound
// message. It is produced once per event by the codec layer and is
// read-only apart from its three maps, which successive stages populate
// (spec §3, §9).
type ScanContext struct {
	Type        ScannerType
	MessageType MessageType

	Agent   Agent
	OS      OS
	Package Package
	Hotfix  Hotfix

	// ClusterEnabled/ClusterName/ClusterNodeName let builders populate the
	// wazuh.cluster envelope section and ephemeral_id without reaching for a
	// global. NewScanContext and the codec decoders leave them empty; the
	// caller sets them.
	ClusterEnabled  bool
	ClusterName     string
	ClusterNodeName string

	// Elements holds, per CVE id, the detection record a scanner or
	// inventory-sync stage has produced for this event.
	Elements map[string]*Element
	// Alerts holds, per CVE id, the lifecycle notification produced when an
	// (agent, key, cve) tuple transitions between present and absent.
	Alerts map[string]*Alert
	// MatchConditions is transient per-event state: how the scanner decided
	// each entry in Elements. Stages that drop an element drop its entry
	// here too; no builder reads it, and it is never persisted.
	MatchConditions map[string]MatchCondition

	// AgentList is populated by BuildAllAgentListContext /
	// BuildSingleAgentListContext for the ScanAgentList stage to iterate.
	AgentList []Agent
}

// NewScanContext returns a ScanContext with its mutable maps initialized.
func NewScanContext(typ ScannerType, msgType MessageType, agent Agent) *ScanContext {
	return &ScanContext{
		Type:            typ,
		MessageType:     msgType,
		Agent:           agent,
		Elements:        make(map[string]*Element),
		Alerts:          make(map[string]*Alert),
		MatchConditions: make(map[string]MatchCondition),
	}
}

// AddMatch records a scanner's match for cve: a skeleton Element and its
// MatchCondition. Building the full envelope is the details builder's job.
func (c *ScanContext) AddMatch(cve string, op Operation, cond MatchCondition) {
	c.Elements[cve] = &Element{Operation: op, ID: cve}
	c.MatchConditions[cve] = cond
}
