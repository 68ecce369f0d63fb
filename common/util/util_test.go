package util

import "testing"

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	want := []int{2, 4, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: want %d got %d", i, want[i], got[i])
		}
	}
}

func TestContains(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		if !Contains([]string{"a", "b"}, "b") {
			t.Error("want true got false")
		}
	})
	t.Run("miss", func(t *testing.T) {
		if Contains([]string{"a", "b"}, "c") {
			t.Error("want false got true")
		}
	})
	t.Run("empty", func(t *testing.T) {
		if Contains(nil, 1) {
			t.Error("want false got true")
		}
	})
}

func TestDatetimeJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var d Datetime
		if err := d.UnmarshalJSON([]byte(`"2023-05-01 10:30:00"`)); err != nil {
			t.Fatal(err)
		}
		out, err := d.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != `"2023-05-01 10:30:00"` {
			t.Errorf("got %s", out)
		}
	})
	t.Run("null", func(t *testing.T) {
		var d Datetime
		if err := d.UnmarshalJSON([]byte(`null`)); err != nil {
			t.Fatal(err)
		}
		out, _ := d.MarshalJSON()
		if string(out) != "null" {
			t.Errorf("got %s", out)
		}
	})
}
