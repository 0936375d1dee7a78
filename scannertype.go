package scanorch

// ScannerType labels the event class that selects the orchestrator chain
// (spec §4.1). It is resolved once per event from the inbound message's
// wire encoding and operation.
type ScannerType int

const (
	// UnknownScannerType is the zero value and is never a valid chain
	// target: the factory rejects it with ErrInvalidScannerType.
	UnknownScannerType ScannerType = iota
	PackageInsert
	PackageDelete
	Os
	HotfixInsert
	HotfixDelete
	IntegrityClear
	CleanupSingleAgentData
	CleanupAllAgentData
	ReScanAllAgents
	ReScanSingleAgent
	GlobalSyncInventory
)

//go:generate stringer -type=ScannerType

func (t ScannerType) String() string {
	switch t {
	case PackageInsert:
		return "PackageInsert"
	case PackageDelete:
		return "PackageDelete"
	case Os:
		return "Os"
	case HotfixInsert:
		return "HotfixInsert"
	case HotfixDelete:
		return "HotfixDelete"
	case IntegrityClear:
		return "IntegrityClear"
	case CleanupSingleAgentData:
		return "CleanupSingleAgentData"
	case CleanupAllAgentData:
		return "CleanupAllAgentData"
	case ReScanAllAgents:
		return "ReScanAllAgents"
	case ReScanSingleAgent:
		return "ReScanSingleAgent"
	case GlobalSyncInventory:
		return "GlobalSyncInventory"
	default:
		return "UnknownScannerType"
	}
}
