package inventory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hostvuln/scanorch"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	key := Key("001", "item1", "CVE-2024-1")

	if _, found, err := s.Get(ctx, key); err != nil || found {
		t.Fatalf("Get before Put: found=%v err=%v, want false, nil", found, err)
	}

	rec := Record{Element: &scanorch.Element{ID: "CVE-2024-1"}, ItemID: "item1"}
	if err := s.Put(ctx, key, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := s.Get(ctx, key)
	if err != nil || !found {
		t.Fatalf("Get after Put: found=%v err=%v, want true, nil", found, err)
	}
	if got.Element.ID != "CVE-2024-1" {
		t.Errorf("Element.ID = %q, want CVE-2024-1", got.Element.ID)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, err := s.Get(ctx, key); err != nil || found {
		t.Fatalf("Get after Delete: found=%v err=%v, want false, nil", found, err)
	}
}

func TestWalkPrefixOrdering(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	for _, cve := range []string{"CVE-2024-3", "CVE-2024-1", "CVE-2024-2"} {
		key := Key("001", "item1", cve)
		if err := s.Put(ctx, key, Record{Element: &scanorch.Element{ID: cve}}); err != nil {
			t.Fatalf("Put(%s): %v", cve, err)
		}
	}
	// A record under a different item must not appear in item1's prefix walk.
	if err := s.Put(ctx, Key("001", "item2", "CVE-2024-9"), Record{}); err != nil {
		t.Fatalf("Put other item: %v", err)
	}

	var got []string
	err := s.WalkPrefix(ctx, ItemPrefix("001", "item1"), func(key string, rec Record) error {
		got = append(got, key)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkPrefix: %v", err)
	}
	want := []string{
		Key("001", "item1", "CVE-2024-1"),
		Key("001", "item1", "CVE-2024-2"),
		Key("001", "item1", "CVE-2024-3"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q (lexical order)", i, got[i], want[i])
		}
	}
}

func TestDeletePrefixRemovesOnlyMatchingKeys(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, Key("001", "item1", "CVE-2024-1"), Record{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, Key("002", "item1", "CVE-2024-1"), Record{}); err != nil {
		t.Fatal(err)
	}

	removed, err := s.DeletePrefix(ctx, AgentPrefix("001"))
	if err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if len(removed) != 1 {
		t.Fatalf("removed %d keys, want 1", len(removed))
	}

	if _, found, _ := s.Get(ctx, Key("002", "item1", "CVE-2024-1")); !found {
		t.Error("agent 002's record should survive a 001-scoped cleanup")
	}
}
