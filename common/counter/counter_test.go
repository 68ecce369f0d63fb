package counter

import "testing"

func TestCounterPopMax(t *testing.T) {
	c := Counter[string]{}
	c.Inc("a", 1)
	c.Inc("b", 3)
	c.Inc("a", 1)

	key, n := c.PopMax()
	if key != "b" || n != 3 {
		t.Fatalf("PopMax() = %q, %d", key, n)
	}
	key, n = c.PopMax()
	if key != "a" || n != 2 {
		t.Fatalf("PopMax() = %q, %d", key, n)
	}
	if len(c) != 0 {
		t.Fatalf("counter not drained: %v", c)
	}
}

func TestCounterIncIfExists(t *testing.T) {
	c := Counter[int]{}
	c.IncIfExists(1, 5)
	if len(c) != 0 {
		t.Fatalf("IncIfExists created a key: %v", c)
	}
	c.Inc(1, 1)
	c.IncIfExists(1, 5)
	if c[1] != 6 {
		t.Fatalf("c[1] = %d", c[1])
	}
}
