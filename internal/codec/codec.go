// Package codec normalizes the three inbound wire representations (delta
// binary, sync binary, JSON action form, spec §6) into one or more typed
// ScanContexts. The binary schemas themselves (syscollector_deltas /
// syscollector_synchronization) are decoded upstream of this package by the
// flatbuffer runtime; codec's job starts once that decoding has produced
// the plain Go values below.
package codec

import (
	"encoding/json"
	"strings"

	"github.com/hostvuln/scanorch"
)

// dataKind names the syscollector attribute family a message concerns,
// independent of which of the three wire forms carried it.
type dataKind string

const (
	kindPackages dataKind = "packages"
	kindOsinfo   dataKind = "osinfo"
	kindHotfixes dataKind = "hotfixes"
)

// scannerTypeFor implements the (data_type, operation) -> ScannerType
// table in spec §6. ok is false for the documented no-op cell
// (osinfo/DELETED).
func scannerTypeFor(kind dataKind, op scanorch.Operation) (scanorch.ScannerType, bool) {
	switch kind {
	case kindPackages:
		switch op {
		case scanorch.Inserted:
			return scanorch.PackageInsert, true
		case scanorch.Deleted:
			return scanorch.PackageDelete, true
		}
	case kindOsinfo:
		switch op {
		case scanorch.Inserted:
			return scanorch.Os, true
		case scanorch.Deleted:
			return scanorch.UnknownScannerType, false
		}
	case kindHotfixes:
		switch op {
		case scanorch.Inserted:
			return scanorch.HotfixInsert, true
		case scanorch.Deleted:
			return scanorch.HotfixDelete, true
		}
	}
	return scanorch.UnknownScannerType, false
}

// DeltaMessage is the decoded form of a syscollector_deltas flatbuffer.
// Attributes carries whichever of Package/OS/Hotfix the attribute union
// actually held; the others are left zero.
type DeltaMessage struct {
	Table     string // "dbsync_packages" | "dbsync_osinfo" | "dbsync_hotfixes"
	Operation string // "INSERTED" | "MODIFIED" | "DELETED"
	Agent     scanorch.Agent

	Package scanorch.Package
	OS      scanorch.OS
	Hotfix  scanorch.Hotfix
}

func (m DeltaMessage) kind() (dataKind, error) {
	switch m.Table {
	case "dbsync_packages":
		return kindPackages, nil
	case "dbsync_osinfo":
		return kindOsinfo, nil
	case "dbsync_hotfixes":
		return kindHotfixes, nil
	default:
		return "", malformed("codec.DecodeDelta", "unknown delta table "+m.Table)
	}
}

// DecodeDelta converts a decoded delta message into one or more
// ScanContexts (spec §6 item 1). A missing operation fails with
// MalformedInput. MODIFIED expands into a DELETED context followed by an
// INSERTED context, except where the DELETED cell is a documented no-op
// (osinfo), in which case only the INSERTED context is produced.
func DecodeDelta(m DeltaMessage) ([]*scanorch.ScanContext, error) {
	if strings.TrimSpace(m.Operation) == "" {
		return nil, malformed("codec.DecodeDelta", "missing operation field")
	}
	kind, err := m.kind()
	if err != nil {
		return nil, err
	}

	var ops []scanorch.Operation
	switch scanorch.Operation(m.Operation) {
	case scanorch.Inserted, scanorch.Deleted:
		ops = []scanorch.Operation{scanorch.Operation(m.Operation)}
	case scanorch.Modified:
		ops = []scanorch.Operation{scanorch.Deleted, scanorch.Inserted}
	default:
		return nil, malformed("codec.DecodeDelta", "unrecognized operation "+m.Operation)
	}

	var out []*scanorch.ScanContext
	for _, op := range ops {
		typ, ok := scannerTypeFor(kind, op)
		if !ok {
			continue
		}
		sc := scanorch.NewScanContext(typ, scanorch.Delta, m.Agent)
		sc.Package = m.Package
		sc.OS = m.OS
		sc.Hotfix = m.Hotfix
		out = append(out, sc)
	}
	return out, nil
}

// SyncMessage is the decoded form of a syscollector_synchronization
// flatbuffer.
type SyncMessage struct {
	DataType       string // "state" | "integrity_clear"
	AttributesType string // "syscollector_osinfo" | "syscollector_packages" | "syscollector_hotfixes"
	Agent          scanorch.Agent

	Package scanorch.Package
	OS      scanorch.OS
	Hotfix  scanorch.Hotfix
}

// DecodeSync converts a decoded sync message into a ScanContext (spec §6
// item 2). "state" is equivalent to INSERTED; "integrity_clear" produces
// an IntegrityClear scanner type regardless of AttributesType.
func DecodeSync(m SyncMessage) (*scanorch.ScanContext, error) {
	switch m.DataType {
	case "integrity_clear":
		return scanorch.NewScanContext(scanorch.IntegrityClear, scanorch.IntegrityClearMessage, m.Agent), nil
	case "state":
		var kind dataKind
		switch m.AttributesType {
		case "syscollector_osinfo":
			kind = kindOsinfo
		case "syscollector_packages":
			kind = kindPackages
		case "syscollector_hotfixes":
			kind = kindHotfixes
		default:
			return nil, malformed("codec.DecodeSync", "unknown attributes_type "+m.AttributesType)
		}
		typ, ok := scannerTypeFor(kind, scanorch.Inserted)
		if !ok {
			return nil, malformed("codec.DecodeSync", "state has no insert mapping for "+m.AttributesType)
		}
		sc := scanorch.NewScanContext(typ, scanorch.SyncState, m.Agent)
		sc.Package = m.Package
		sc.OS = m.OS
		sc.Hotfix = m.Hotfix
		return sc, nil
	default:
		return nil, malformed("codec.DecodeSync", "unknown data_type "+m.DataType)
	}
}

// jsonEnvelope is the raw shape of the out-of-band fleet-management JSON
// action form (spec §6 item 3): "data" is typed per Action, so it is kept
// raw until Action is known.
type jsonEnvelope struct {
	Action string          `json:"action"`
	Agent  scanorch.Agent  `json:"agent_info"`
	Data   json.RawMessage `json:"data"`
}

// DecodeJSON unmarshals and converts a JSON action message into a
// ScanContext (spec §6 item 3).
func DecodeJSON(raw []byte) (*scanorch.ScanContext, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &scanorch.Error{Op: "codec.DecodeJSON", Kind: scanorch.ErrMalformedInput, Inner: err}
	}

	switch env.Action {
	case "deletePackage":
		var pkg scanorch.Package
		if err := json.Unmarshal(env.Data, &pkg); err != nil {
			return nil, &scanorch.Error{Op: "codec.DecodeJSON", Kind: scanorch.ErrMalformedInput, Inner: err}
		}
		sc := scanorch.NewScanContext(scanorch.PackageDelete, scanorch.DataJSON, env.Agent)
		sc.Package = pkg
		return sc, nil
	case "deleteHotfix":
		var hotfix scanorch.Hotfix
		if err := json.Unmarshal(env.Data, &hotfix); err != nil {
			return nil, &scanorch.Error{Op: "codec.DecodeJSON", Kind: scanorch.ErrMalformedInput, Inner: err}
		}
		sc := scanorch.NewScanContext(scanorch.HotfixDelete, scanorch.DataJSON, env.Agent)
		sc.Hotfix = hotfix
		return sc, nil
	default:
		return nil, malformed("codec.DecodeJSON", "unknown action "+env.Action)
	}
}

func malformed(op, msg string) error {
	return &scanorch.Error{Op: op, Kind: scanorch.ErrMalformedInput, Message: msg}
}
