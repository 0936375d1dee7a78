package scanorch

// Hotfix describes an operating-system patch known on an agent's host,
// primarily Windows KB-prefixed identifiers, as reported by the
// syscollector hotfixes collector.
type Hotfix struct {
	ID       string `json:"hotfix"`
	ScanTime string `json:"scanTime,omitempty"`
}
