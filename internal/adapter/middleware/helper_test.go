package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// --- bodyHash ---

func Test_bodyHash(t *testing.T) {
	data := []byte("hello world")
	got := bodyHash(data)

	sum := sha256.Sum256(data)
	want := hex.EncodeToString(sum[:])

	if got != want {
		t.Fatalf("bodyHash mismatch: got %s want %s", got, want)
	}
}

// --- buildKey ---

func Test_buildKey(t *testing.T) {
	k := buildKey("POST", "/invoices", strings.Repeat("b", 32), strings.Repeat("a", 32))
	wantPrefix := "idemp:post:/invoices:"
	if !strings.HasPrefix(k, wantPrefix) {
		t.Fatalf("buildKey prefix mismatch: got %q want prefix %q", k, wantPrefix)
	}
	if !strings.Contains(k, ":"+strings.Repeat("b", 32)+":") || !strings.HasSuffix(k, strings.Repeat("a", 32)) {
		t.Fatalf("buildKey missing user/request segments: %q", k)
	}
}

// --- validReqID ---

func Test_validReqID(t *testing.T) {
	t.Run("accepts uuid v4 and 32-hex", func(t *testing.T) {
		valid := []string{
			"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88", // UUID v4 (lowercase)
			strings.Repeat("a", 32),                // 32-char lowercase hex
			"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88",     // 32-char lowercase hex (no dashes)
		}
		for _, s := range valid {
			if !validReqID(s) {
				t.Fatalf("validReqID should accept %q", s)
			}
		}
	})

	t.Run("rejects bad formats", func(t *testing.T) {
		invalid := []string{
			"",
			"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
			"3f9a6a1b3d544fbe8b3a6b3e8d6b2c880", // 33 chars
			"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",  // non-hex chars
			"not a request id",
		}
		for _, s := range invalid {
			if validReqID(s) {
				t.Fatalf("validReqID should reject %q", s)
			}
		}
	})
}

// --- parseRequestAt ---

func Test_parseRequestAt(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("epoch seconds", func(t *testing.T) {
		got, err := parseRequestAt("1756339200")
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if got.Unix() != 1756339200 {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("epoch milliseconds", func(t *testing.T) {
		got, err := parseRequestAt("1756339200123")
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if got.UnixMilli() != 1756339200123 {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("rfc3339", func(t *testing.T) {
		got, err := parseRequestAt(now.Format(time.RFC3339))
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if !got.Equal(now) {
			t.Fatalf("got %v want %v", got, now)
		}
	})

	t.Run("rejects garbage and empty", func(t *testing.T) {
		for _, s := range []string{"", "not-a-time", "2026-08-28"} {
			if _, err := parseRequestAt(s); err == nil {
				t.Fatalf("expected error for %q", s)
			}
		}
	})
}

// --- redis round trip ---

func Test_provisionalSetAndLoad(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{}`)), RequestID: strings.Repeat("a", 32)}
	ok, err := provisionalSet(ctx, rdb, "idemp:test", entry)
	if err != nil || !ok {
		t.Fatalf("provisionalSet = (%v, %v), want (true, nil)", ok, err)
	}
	// second lock attempt loses
	ok, err = provisionalSet(ctx, rdb, "idemp:test", entry)
	if err != nil || ok {
		t.Fatalf("second provisionalSet = (%v, %v), want (false, nil)", ok, err)
	}

	got, err := loadEntry(ctx, rdb, "idemp:test")
	if err != nil {
		t.Fatalf("loadEntry: %v", err)
	}
	if !got.InProgress || got.BodySHA256 != entry.BodySHA256 {
		t.Fatalf("loaded entry mismatch: %+v", got)
	}

	final := entry
	final.InProgress = false
	final.Code = 201
	final.Body = []byte(`{"ok":true}`)
	if err := saveFinal(ctx, rdb, "idemp:test", final, 30*time.Second); err != nil {
		t.Fatalf("saveFinal: %v", err)
	}
	got, err = loadEntry(ctx, rdb, "idemp:test")
	if err != nil || got.InProgress || got.Code != 201 {
		t.Fatalf("final entry mismatch: %+v, %v", got, err)
	}
}
