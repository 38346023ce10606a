package store

import "testing"

func TestDefaultChatKeys(t *testing.T) {
	keys := DefaultChatKeys("UniConnect", "B.Tech CSE", 2027, "Kerala")

	if len(keys) != 4 {
		t.Fatalf("expected 4 default chat keys, got %d", len(keys))
	}

	want := []ChatKey{
		{Name: "UniConnect", Type: ChatTypeGlobal},
		{Name: "B.Tech CSE", Type: ChatTypeCourse},
		{Name: "B.Tech CSE 2027", Type: ChatTypeBatch},
		{Name: "Kerala Students", Type: ChatTypeState},
	}

	for i, k := range keys {
		if k != want[i] {
			t.Errorf("key %d: got %+v, want %+v", i, k, want[i])
		}
	}
}

func TestDefaultChatKeysDistinctUsersShareBatch(t *testing.T) {
	a := DefaultChatKeys("UniConnect", "MBA", 2026, "Goa")
	b := DefaultChatKeys("UniConnect", "MBA", 2026, "Punjab")

	// Same course and year must resolve to the same batch chat regardless of
	// the user's state, so both land in one room.
	if a[2] != b[2] {
		t.Errorf("batch keys differ: %+v vs %+v", a[2], b[2])
	}

	if a[3] == b[3] {
		t.Errorf("state keys should differ for different states: %+v", a[3])
	}
}

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}

	for _, c := range cases {
		if got := escapeLike(c.in); got != c.want {
			t.Errorf("escapeLike(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
