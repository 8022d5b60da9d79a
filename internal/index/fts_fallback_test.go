//go:build !sqlite_fts5

package index

import "testing"

func TestLikeSearch_RanksByWeightedHits(t *testing.T) {
	db := testDB(t)
	_, _ = Sync(db, sample, quietLogger())

	// record 0 only matches "form"; record 1 matches "certificate" in its
	// question and keywords and "completion" in its keywords and answer
	results, err := db.Search("form certificate completion", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v, want 2", results)
	}
	if results[0].Position != 1 || results[1].Position != 0 {
		t.Errorf("order = %d, %d; want 1, 0", results[0].Position, results[1].Position)
	}
}
