package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %t, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "report:abc"); hit || err != nil {
		t.Fatalf("Get() on empty cache = %t, %v", hit, err)
	}
	if err := c.Set(ctx, "report:abc", []byte(`{"ideals":30}`), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "report:abc")
	if err != nil || !hit || string(data) != `{"ideals":30}` {
		t.Fatalf("Get() = %q, %t, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "report:abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "report:abc"); hit {
		t.Error("entry survived Delete()")
	}
	if err := c.Delete(ctx, "report:abc"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get() = %t, %v; want silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s survived Clear()", k)
		}
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("Clear() removed the cache directory: %v", err)
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash is not deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("different inputs share a hash")
	}
	if n := len(Hash([]byte("hello"))); n != 64 {
		t.Errorf("len(Hash()) = %d, want 64", n)
	}

	h1, err := HashJSON(map[string]any{"root": 1})
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := HashJSON(map[string]any{"root": 2})
	if h1 == h2 {
		t.Error("HashJSON ignores content")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.ReportKey("tree", ReportKeyOpts{Engine: "koda-ruskey", Reps: 5})
	b := k.ReportKey("tree", ReportKeyOpts{Engine: "pop-jump-push", Reps: 5})
	c := k.ReportKey("tree", ReportKeyOpts{Engine: "koda-ruskey", Reps: 5, Workers: 4})
	if a == b || a == c {
		t.Error("report options do not change the key")
	}
	if !strings.HasPrefix(a, "report:") {
		t.Errorf("ReportKey() = %q", a)
	}
	if a != k.ReportKey("tree", ReportKeyOpts{Engine: "koda-ruskey", Reps: 5}) {
		t.Error("ReportKey is not deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "api:")
	if got := scoped.ReportKey("abc", ReportKeyOpts{}); !strings.HasPrefix(got, "api:report:") {
		t.Errorf("ReportKey() = %q", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false for a wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapping hides the cause")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable() = true for a plain error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = 200 * time.Millisecond })
	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err = %v, calls = %d", err, calls)
	}

	plain := errors.New("bad request")
	calls = 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return plain }); err != plain || calls != 1 {
		t.Errorf("non-retryable: err = %v, calls = %d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err = %v, calls = %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrUnavailable) })
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err = %v, calls = %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrUnavailable) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
