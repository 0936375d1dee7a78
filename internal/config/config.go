// Package config loads the orchestrator's runtime configuration: process
// flags/environment via goconfig (matching the teacher's cmd/libvulnhttp
// convention) plus the JSON document spec §6 describes for the
// vulnerability-detection module proper.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config is the goconfig-tagged process configuration: log level, the
// inventory store path, and the path to the JSON document below.
type Config struct {
	LogLevel       string `cfgDefault:"info" cfg:"LOG_LEVEL" cfgHelper:"Log levels: debug, info, warning, error, fatal, panic"`
	InventoryPath  string `cfgDefault:"queue/vd/inventory" cfg:"INVENTORY_PATH" cfgHelper:"bbolt database directory for the inventory store"`
	DocumentPath   string `cfgDefault:"/etc/vdscand/vulnerability-detection.json" cfg:"VD_CONFIG_PATH" cfgHelper:"path to the vulnerability-detection JSON document"`
	StopCheckEvery int    `cfgDefault:"1000" cfg:"STOP_CHECK_EVERY" cfgHelper:"not read by any stage; sweeps check StopPredicate once per visited agent"`
}

// Document is the single JSON document spec §6 "Configuration surface"
// describes. Its keys are dotted in the source document
// ("vulnerability-detection.enabled" etc.); Decode flattens them into this
// struct.
type Document struct {
	Enabled         bool
	IndexStatus     bool
	CTIURL          string
	OsDataLRUSize   int
	ClusterEnabled  bool
	ClusterName     string
	ClusterNodeName string
}

// wireDocument mirrors the on-disk shape, which nests the three
// vulnerability-detection.* keys under a "vulnerability-detection" object.
type wireDocument struct {
	VulnerabilityDetection struct {
		Enabled     yesNo  `json:"enabled"`
		IndexStatus yesNo  `json:"index-status"`
		CTIURL      string `json:"cti-url"`
	} `json:"vulnerability-detection"`
	OsDataLRUSize   int    `json:"osdataLRUSize"`
	ClusterEnabled  bool   `json:"clusterEnabled"`
	ClusterName     string `json:"clusterName"`
	ClusterNodeName string `json:"clusterNodeName"`
}

// yesNo decodes the document's "yes"/"no" string booleans (spec §6).
type yesNo bool

func (y *yesNo) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		*y = true
	case "no", "false", "":
		*y = false
	default:
		return fmt.Errorf("config: invalid yes/no value %q", s)
	}
	return nil
}

// DefaultOsDataLRUSize is used when the document omits osdataLRUSize or
// sets it to zero (spec §6: "default 1000").
const DefaultOsDataLRUSize = 1000

// LoadDocument reads and decodes the JSON document at path.
func LoadDocument(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	var wire wireDocument
	if err := json.NewDecoder(f).Decode(&wire); err != nil {
		return Document{}, fmt.Errorf("config: decode %s: %w", path, err)
	}

	size := wire.OsDataLRUSize
	if size <= 0 {
		size = DefaultOsDataLRUSize
	}

	return Document{
		Enabled:         bool(wire.VulnerabilityDetection.Enabled),
		IndexStatus:     bool(wire.VulnerabilityDetection.IndexStatus),
		CTIURL:          wire.VulnerabilityDetection.CTIURL,
		OsDataLRUSize:   size,
		ClusterEnabled:  wire.ClusterEnabled,
		ClusterName:     wire.ClusterName,
		ClusterNodeName: wire.ClusterNodeName,
	}, nil
}
