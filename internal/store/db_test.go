package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	db, err := NewSQLiteDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
	}
	return db, cleanup
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestDB_Cache(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	db.SetClock(clock.Now)

	data, err := db.GetCache("missing")
	if err != nil {
		t.Fatalf("GetCache failed: %v", err)
	}
	if data != nil {
		t.Errorf("Expected nil for missing key, got %q", data)
	}

	if err := db.SetCache("lyrics:1", []byte("first"), time.Hour); err != nil {
		t.Fatalf("SetCache failed: %v", err)
	}
	if err := db.SetCache("lyrics:1", []byte("second"), time.Hour); err != nil {
		t.Fatalf("SetCache overwrite failed: %v", err)
	}

	data, err = db.GetCache("lyrics:1")
	if err != nil {
		t.Fatalf("GetCache failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Expected 'second', got %q", data)
	}

	clock.Advance(time.Hour)
	data, _ = db.GetCache("lyrics:1")
	if data != nil {
		t.Errorf("Expected expired entry to be gone, got %q", data)
	}

	if err := db.SetCache("forever", []byte("x"), 0); err != nil {
		t.Fatalf("SetCache failed: %v", err)
	}
	clock.Advance(365 * 24 * time.Hour)
	data, _ = db.GetCache("forever")
	if string(data) != "x" {
		t.Errorf("Expected entry without ttl to survive, got %q", data)
	}

	if err := db.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	data, _ = db.GetCache("forever")
	if data != nil {
		t.Errorf("Expected cache to be cleared, got %q", data)
	}
}

func TestDB_Values(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	db.SetClock(clock.Now)

	if err := db.SetValue(ctx, "chats:1", []byte(`{"track_id":1}`), 6*time.Hour); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	value, err := db.GetValue(ctx, "chats:1")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if string(value) != `{"track_id":1}` {
		t.Errorf("Unexpected value %q", value)
	}

	clock.Advance(6*time.Hour - time.Minute)
	if value, _ := db.GetValue(ctx, "chats:1"); value == nil {
		t.Error("Expected value to still be present before ttl")
	}

	clock.Advance(time.Minute)
	if value, _ := db.GetValue(ctx, "chats:1"); value != nil {
		t.Errorf("Expected value to expire, got %q", value)
	}

	if err := db.SetValue(ctx, "chats:2", []byte("x"), time.Hour); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if err := db.DeleteValue(ctx, "chats:2"); err != nil {
		t.Fatalf("DeleteValue failed: %v", err)
	}
	if err := db.DeleteValue(ctx, "chats:2"); err != nil {
		t.Fatalf("Second DeleteValue failed: %v", err)
	}
	if value, _ := db.GetValue(ctx, "chats:2"); value != nil {
		t.Errorf("Expected deleted value to be gone, got %q", value)
	}
}

func TestDB_Lists(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	values, err := db.ReadList(ctx, "tracks:recent:1")
	if err != nil {
		t.Fatalf("ReadList failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("Expected empty list, got %v", values)
	}

	for _, v := range []string{"10", "20", "30", "40"} {
		if err := db.AppendToList(ctx, "tracks:recent:1", v, 3); err != nil {
			t.Fatalf("AppendToList failed: %v", err)
		}
	}
	if err := db.AppendToList(ctx, "tracks:recent:2", "99", 3); err != nil {
		t.Fatalf("AppendToList failed: %v", err)
	}

	values, err = db.ReadList(ctx, "tracks:recent:1")
	if err != nil {
		t.Fatalf("ReadList failed: %v", err)
	}
	want := []string{"20", "30", "40"}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Expected %v, got %v", want, values)
	}

	other, _ := db.ReadList(ctx, "tracks:recent:2")
	if !reflect.DeepEqual(other, []string{"99"}) {
		t.Errorf("Expected other list untouched, got %v", other)
	}

	if err := db.DeleteList(ctx, "tracks:recent:1"); err != nil {
		t.Fatalf("DeleteList failed: %v", err)
	}
	values, _ = db.ReadList(ctx, "tracks:recent:1")
	if len(values) != 0 {
		t.Errorf("Expected list to be deleted, got %v", values)
	}
}

func TestDB_PurgeExpired(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	db.SetClock(clock.Now)

	_ = db.SetValue(ctx, "short", []byte("a"), time.Minute)
	_ = db.SetValue(ctx, "long", []byte("b"), time.Hour)
	_ = db.SetValue(ctx, "forever", []byte("c"), 0)
	_ = db.SetCache("lyrics:1", []byte("d"), time.Minute)

	clock.Advance(2 * time.Minute)

	n, err := db.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 purged rows, got %d", n)
	}

	var remaining int
	if err := db.Get(&remaining, "SELECT COUNT(*) FROM kv"); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if remaining != 2 {
		t.Errorf("Expected 2 remaining kv rows, got %d", remaining)
	}
}

func TestDB_Stats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	stat, err := db.FindStatByChatID(ctx, 1)
	if err != nil {
		t.Fatalf("FindStatByChatID failed: %v", err)
	}
	if stat != nil {
		t.Errorf("Expected nil stat for unknown chat, got %+v", stat)
	}

	if err := db.UpsertZeroStat(ctx, 1, "neo"); err != nil {
		t.Fatalf("UpsertZeroStat failed: %v", err)
	}

	if err := db.IncrementAnswers(ctx, 1, "", true); err != nil {
		t.Fatalf("IncrementAnswers failed: %v", err)
	}
	if err := db.IncrementAnswers(ctx, 1, "", false); err != nil {
		t.Fatalf("IncrementAnswers failed: %v", err)
	}

	stat, err = db.FindStatByChatID(ctx, 1)
	if err != nil {
		t.Fatalf("FindStatByChatID failed: %v", err)
	}
	if stat.Answers != 2 {
		t.Errorf("Expected 2 answers, got %d", stat.Answers)
	}
	if stat.SuccessAnswers != 1 {
		t.Errorf("Expected 1 success answer, got %d", stat.SuccessAnswers)
	}
	if stat.Username == nil || *stat.Username != "neo" {
		t.Errorf("Expected username to be kept, got %v", stat.Username)
	}

	if err := db.ResetCounters(ctx, 1); err != nil {
		t.Fatalf("ResetCounters failed: %v", err)
	}
	stat, _ = db.FindStatByChatID(ctx, 1)
	if stat == nil {
		t.Fatal("Expected row to survive reset")
	}
	if stat.Answers != 0 || stat.SuccessAnswers != 0 {
		t.Errorf("Expected zeroed counters, got %d/%d", stat.Answers, stat.SuccessAnswers)
	}

	// Answers on an unknown chat create the row.
	if err := db.IncrementAnswers(ctx, 2, "trinity", true); err != nil {
		t.Fatalf("IncrementAnswers failed: %v", err)
	}
	stat, _ = db.FindStatByChatID(ctx, 2)
	if stat == nil || stat.Answers != 1 || stat.SuccessAnswers != 1 {
		t.Errorf("Expected created row with 1/1, got %+v", stat)
	}

	// Upsert zeroes an existing row.
	if err := db.UpsertZeroStat(ctx, 2, ""); err != nil {
		t.Fatalf("UpsertZeroStat failed: %v", err)
	}
	stat, _ = db.FindStatByChatID(ctx, 2)
	if stat.Answers != 0 || stat.Username == nil || *stat.Username != "trinity" {
		t.Errorf("Expected zeroed row keeping username, got %+v", stat)
	}
}

func TestDB_TopStats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_ = db.IncrementAnswers(ctx, 1, "a", true)
	_ = db.IncrementAnswers(ctx, 2, "b", true)
	_ = db.IncrementAnswers(ctx, 2, "b", true)
	_ = db.IncrementAnswers(ctx, 3, "c", false)
	_ = db.UpsertZeroStat(ctx, 4, "d")

	top, err := db.TopStats(ctx, 10)
	if err != nil {
		t.Fatalf("TopStats failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 chats with answers, got %d", len(top))
	}
	if top[0].ChatID != 2 || top[1].ChatID != 1 || top[2].ChatID != 3 {
		t.Errorf("Unexpected order: %d, %d, %d", top[0].ChatID, top[1].ChatID, top[2].ChatID)
	}

	top, _ = db.TopStats(ctx, 1)
	if len(top) != 1 {
		t.Errorf("Expected limit to apply, got %d", len(top))
	}
}
