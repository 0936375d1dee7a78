package cache

import (
	"testing"

	"github.com/hostvuln/scanorch"
)

func TestOsDataCacheEviction(t *testing.T) {
	t.Parallel()
	c, err := NewOsDataCache(2)
	if err != nil {
		t.Fatalf("NewOsDataCache: %v", err)
	}
	c.Add("a", scanorch.OS{Name: "a-os"})
	c.Add("b", scanorch.OS{Name: "b-os"})
	c.Add("c", scanorch.OS{Name: "c-os"})

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected least-recently-used entry a to be evicted")
	}
	if got, ok := c.Get("c"); !ok || got.Name != "c-os" {
		t.Errorf("Get(c) = %+v, %v, want c-os, true", got, ok)
	}
}

func TestOsDataCacheDefaultSize(t *testing.T) {
	t.Parallel()
	c, err := NewOsDataCache(0)
	if err != nil {
		t.Fatalf("NewOsDataCache: %v", err)
	}
	for i := 0; i < DefaultSize+10; i++ {
		c.Add(string(rune(i)), scanorch.OS{})
	}
	if c.Len() > DefaultSize {
		t.Errorf("Len() = %d, want <= %d", c.Len(), DefaultSize)
	}
}

func TestRemediationDataCache(t *testing.T) {
	t.Parallel()
	c, err := NewRemediationDataCache(DefaultSize)
	if err != nil {
		t.Fatalf("NewRemediationDataCache: %v", err)
	}
	c.Add("001", RemediationData{Solution: "KB1,KB2"})
	got, ok := c.Get("001")
	if !ok {
		t.Fatal("expected entry to be present")
	}
	if got.Solution != "KB1,KB2" {
		t.Errorf("Solution = %q, want KB1,KB2", got.Solution)
	}
}
