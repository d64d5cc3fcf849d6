package cache

import (
	"errors"
	"testing"
	"time"
)

func newTestRistretto(t *testing.T, ttl time.Duration) *Ristretto {
	t.Helper()
	c, err := NewRistretto(1, 100, ttl)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestRistretto_SetAndGet(t *testing.T) {
	c := newTestRistretto(t, time.Minute)

	c.Set("graph", []byte(`{"nodes":[]}`), 0)
	got, found := c.Get("graph")
	if !found {
		t.Fatal("Expected to find cached value")
	}
	if string(got) != `{"nodes":[]}` {
		t.Errorf("unexpected value %s", got)
	}

	if _, found := c.Get("missing"); found {
		t.Error("Expected not to find missing key")
	}
}

func TestRistretto_Expiration(t *testing.T) {
	c := newTestRistretto(t, time.Minute)

	c.Set("short", []byte("v"), 50*time.Millisecond)
	if _, found := c.Get("short"); !found {
		t.Fatal("Expected to find value immediately after set")
	}
	time.Sleep(200 * time.Millisecond)
	if _, found := c.Get("short"); found {
		t.Error("Expected value to be expired")
	}
}

func TestRistretto_DeleteAndClear(t *testing.T) {
	c := newTestRistretto(t, time.Minute)

	c.Set("a", []byte("1"), 0)
	c.Set("b", []byte("2"), 0)
	c.Delete("a")
	if _, found := c.Get("a"); found {
		t.Error("Expected deleted key to be gone")
	}
	c.Clear()
	if _, found := c.Get("b"); found {
		t.Error("Expected cleared cache to be empty")
	}
}

func TestRistretto_Stats(t *testing.T) {
	c := newTestRistretto(t, time.Minute)

	c.Set("k", []byte("v"), 0)
	c.Get("k")
	c.Get("nope")

	st := c.Stats()
	if st.Hits < 1 || st.Misses < 1 {
		t.Errorf("expected hits and misses to be counted, got %+v", st)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	m.Set("k", []byte("v"), 0)
	if v, ok := m.Get("k"); !ok || string(v) != "v" {
		t.Fatal("expected stored value")
	}
	m.Set("e", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, ok := m.Get("e"); ok {
		t.Error("expected expired value to be gone")
	}
	m.Clear()
	if m.Stats().Items != 0 {
		t.Error("expected empty cache after Clear")
	}
}

func TestFetch(t *testing.T) {
	m := NewMemory()
	calls := 0
	load := func() ([]byte, error) {
		calls++
		return []byte("payload"), nil
	}

	v, hit, err := Fetch(m, "k", 0, load)
	if err != nil || hit || string(v) != "payload" {
		t.Fatalf("first fetch: v=%s hit=%v err=%v", v, hit, err)
	}
	v, hit, err = Fetch(m, "k", 0, load)
	if err != nil || !hit || string(v) != "payload" {
		t.Fatalf("second fetch: v=%s hit=%v err=%v", v, hit, err)
	}
	if calls != 1 {
		t.Errorf("expected loader to run once, ran %d times", calls)
	}

	boom := errors.New("boom")
	_, _, err = Fetch(m, "bad", 0, func() ([]byte, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := m.Get("bad"); ok {
		t.Error("errors must not be cached")
	}
}
