package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/reelkit/core"
)

func ts(offset int) time.Time {
	return time.Unix(1700000000+int64(offset), 0)
}

func TestMemoryInteractionStore_ListForUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryInteractionStore()

	seed := []core.Interaction{
		{UserID: "alice", ItemID: 101, Liked: true, Timestamp: ts(10)},
		{UserID: "alice", ItemID: 102, Liked: false, Timestamp: ts(30)},
		{UserID: "alice", ItemID: 103, Liked: true, Timestamp: ts(20)},
		{UserID: "bob", ItemID: 101, Liked: true, Timestamp: ts(5)},
	}
	for _, in := range seed {
		if err := s.Record(ctx, in); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := s.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	// 时间倒序
	wantIDs := []int64{102, 103, 101}
	if len(got) != len(wantIDs) {
		t.Fatalf("ListForUser() returned %d interactions, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ItemID != id {
			t.Errorf("interactions[%d].ItemID = %d, want %d", i, got[i].ItemID, id)
		}
	}

	got, err = s.ListForUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListForUser(unknown) returned %d interactions, want 0", len(got))
	}
}

func TestMemoryInteractionStore_RecordOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryInteractionStore()

	s.Record(ctx, core.Interaction{UserID: "alice", ItemID: 101, Liked: true, Timestamp: ts(1)})
	s.Record(ctx, core.Interaction{UserID: "alice", ItemID: 101, Liked: false, Timestamp: ts(2)})

	got, _ := s.ListForUser(ctx, "alice")
	if len(got) != 1 {
		t.Fatalf("ListForUser() returned %d interactions, want 1 (overwrite)", len(got))
	}
	if got[0].Liked {
		t.Error("interaction.Liked = true, want false (last write wins)")
	}
}

func TestMemoryInteractionStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryInteractionStore()

	s.Record(ctx, core.Interaction{UserID: "alice", ItemID: 101, Liked: true, Timestamp: ts(1)})
	if err := s.Delete(ctx, "alice", 101); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// 删除不存在的记录不报错
	if err := s.Delete(ctx, "alice", 999); err != nil {
		t.Fatalf("Delete(missing) error = %v", err)
	}

	got, _ := s.ListForUser(ctx, "alice")
	if len(got) != 0 {
		t.Errorf("ListForUser() returned %d interactions after delete, want 0", len(got))
	}
}

func TestMemoryInteractionStore_ListLikedByUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryInteractionStore()

	seed := []core.Interaction{
		{UserID: "alice", ItemID: 101, Liked: true, Timestamp: ts(1)},
		{UserID: "alice", ItemID: 102, Liked: false, Timestamp: ts(2)},
		{UserID: "bob", ItemID: 103, Liked: true, Timestamp: ts(3)},
		{UserID: "carol", ItemID: 104, Liked: true, Timestamp: ts(4)},
	}
	for _, in := range seed {
		s.Record(ctx, in)
	}

	got, err := s.ListLikedByUsers(ctx, []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("ListLikedByUsers() error = %v", err)
	}
	// 只有 liked，且不含 carol
	if len(got) != 2 {
		t.Fatalf("ListLikedByUsers() returned %d interactions, want 2", len(got))
	}
	for _, in := range got {
		if !in.Liked {
			t.Errorf("interaction %d/%s not liked", in.ItemID, in.UserID)
		}
		if in.UserID == "carol" {
			t.Error("carol leaked into result")
		}
	}
}

func TestMemoryInteractionStore_ListAllDeterministic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryInteractionStore()

	// 同一时间戳：userID / itemID 升序决定顺序
	for _, in := range []core.Interaction{
		{UserID: "bob", ItemID: 2, Liked: true, Timestamp: ts(0)},
		{UserID: "alice", ItemID: 9, Liked: true, Timestamp: ts(0)},
		{UserID: "alice", ItemID: 3, Liked: true, Timestamp: ts(0)},
	} {
		s.Record(ctx, in)
	}

	first, _ := s.ListAll(ctx)
	want := []struct {
		userID string
		itemID int64
	}{
		{"alice", 3}, {"alice", 9}, {"bob", 2},
	}
	if len(first) != len(want) {
		t.Fatalf("ListAll() returned %d interactions, want %d", len(first), len(want))
	}
	for i, w := range want {
		if first[i].UserID != w.userID || first[i].ItemID != w.itemID {
			t.Errorf("interactions[%d] = %s/%d, want %s/%d",
				i, first[i].UserID, first[i].ItemID, w.userID, w.itemID)
		}
	}
}
