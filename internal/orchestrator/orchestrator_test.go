package orchestrator

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/stage"
)

// Universal property 1 (spec §8): for every scanner type listed in spec
// §4.1, the chain produced visits exactly the named stages in the named
// order.
func TestBuildChainComposition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ   scanorch.ScannerType
		chain []string
	}{
		{scanorch.PackageInsert, []string{
			"PackageScan", "EventInsertInventory", "EventDetailsBuilder",
			"EventPackageAlertBuilder", "EventSendReport", "ResultIndexer",
		}},
		{scanorch.PackageDelete, []string{
			"EventDeleteInventory", "EventPackageAlertBuilder", "EventSendReport", "ResultIndexer",
		}},
		{scanorch.Os, []string{
			"OsScan", "ScanInventorySync", "EventDetailsBuilder", "ScanOsAlertBuilder",
			"EventSendReport", "ResultIndexer",
		}},
		{scanorch.HotfixInsert, []string{
			"HotfixInsert", "CveSolvedInventorySync", "CveSolvedAlertBuilder",
			"EventSendReport", "ArrayResultIndexer",
		}},
		{scanorch.HotfixDelete, []string{"HotfixDelete"}},
		{scanorch.IntegrityClear, []string{
			"CleanSingleAgentInventory", "AlertClearBuilder", "ClearSendReport",
		}},
		{scanorch.CleanupSingleAgentData, []string{"CleanSingleAgentInventory"}},
		{scanorch.CleanupAllAgentData, []string{"CleanAllAgentInventory"}},
		{scanorch.ReScanAllAgents, []string{
			"CleanAllAgentInventory", "BuildAllAgentListContext", "ScanAgentList",
		}},
		{scanorch.ReScanSingleAgent, []string{
			"CleanSingleAgentInventory", "BuildSingleAgentListContext", "ScanAgentList",
		}},
		{scanorch.GlobalSyncInventory, []string{"GlobalInventorySync"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.typ.String(), func(t *testing.T) {
			t.Parallel()
			head, err := Build(tc.typ, Collaborators{})
			if err != nil {
				t.Fatalf("Build(%v): %v", tc.typ, err)
			}
			got := stage.Types(head)
			if diff := cmp.Diff(tc.chain, got); diff != "" {
				t.Errorf("chain mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildUnknownScannerTypeFails(t *testing.T) {
	t.Parallel()
	_, err := Build(scanorch.UnknownScannerType, Collaborators{})
	se, ok := err.(*scanorch.Error)
	if !ok || se.Kind != scanorch.ErrInvalidScannerType {
		t.Fatalf("err = %v, want *scanorch.Error with ErrInvalidScannerType", err)
	}
}

func TestBuildUnknownTypeDoesNotPanicForOutOfRangeValue(t *testing.T) {
	t.Parallel()
	_, err := Build(scanorch.ScannerType(999), Collaborators{})
	if err == nil {
		t.Fatal("expected an error for an out-of-range ScannerType")
	}
}
