package pricefeed

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	var hits int
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(status)
		io.WriteString(w, "hello")
	}))
	defer srv.Close()

	now := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	cache := newMemoryCache(nil, time.Minute)
	cache.now = func() time.Time { return now }
	client := &http.Client{Transport: cache}

	get := func(path string) string {
		t.Helper()
		resp, err := client.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		return string(body)
	}

	testCases := []struct {
		name     string
		path     string
		advance  time.Duration
		status   int
		wantHits int
	}{
		{name: "first call", path: "/a", wantHits: 1},
		{name: "cached", path: "/a", advance: 30 * time.Second, wantHits: 1},
		{name: "other url", path: "/b", wantHits: 2},
		{name: "expired", path: "/a", advance: 31 * time.Second, wantHits: 3},
		{name: "errors are not cached", path: "/c", status: http.StatusInternalServerError, wantHits: 4},
		{name: "errors are retried", path: "/c", wantHits: 5},
	}
	for _, tc := range testCases {
		now = now.Add(tc.advance)
		status = http.StatusOK
		if tc.status != 0 {
			status = tc.status
		}
		if got := get(tc.path); got != "hello" {
			t.Errorf("%s: body = %q, want hello", tc.name, got)
		}
		if hits != tc.wantHits {
			t.Errorf("%s: hits = %d, want %d", tc.name, hits, tc.wantHits)
		}
	}
}
