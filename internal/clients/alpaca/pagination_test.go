package alpaca

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// barsJSON renders n bars spaced step apart starting at from.
func barsJSON(from time.Time, step time.Duration, offset, n int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		ts := from.Add(time.Duration(offset+i) * step).Format(time.RFC3339)
		fmt.Fprintf(&b, `{"t":%q,"o":1,"h":1,"l":1,"c":%d,"v":1}`, ts, offset+i)
	}
	b.WriteString("]")
	return b.String()
}

func TestFetchCryptoBars_FollowsPageTokens(t *testing.T) {
	from := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	const total, perPage = 1440, 1000
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		offset := 0
		if tok := r.URL.Query().Get("page_token"); tok != "" {
			offset, _ = strconv.Atoi(tok)
		}
		n := perPage
		if offset+n > total {
			n = total - offset
		}
		next := "null"
		if offset+n < total {
			next = strconv.Quote(strconv.Itoa(offset + n))
		}
		fmt.Fprintf(w, `{"bars":{"BTC/USD":%s},"next_page_token":%s}`, barsJSON(from, 15*time.Minute, offset, n), next)
	}))
	defer srv.Close()

	bars, err := newTestClient(srv).FetchCryptoBars(context.Background(), []string{"BTC/USD"}, models.Timeframe15Min, from, 10000)
	if err != nil {
		t.Fatalf("FetchCryptoBars failed: %v", err)
	}
	series := bars["BTC/USD"]
	if len(series) != total {
		t.Fatalf("expected %d bars, got %d", total, len(series))
	}
	want := time.Date(2026, 10, 17, 23, 45, 0, 0, time.UTC)
	if last := series[len(series)-1].Timestamp; !last.Equal(want) {
		t.Errorf("last bar at %v, want %v", last, want)
	}
	for i := 1; i < len(series); i++ {
		if !series[i-1].Timestamp.Before(series[i].Timestamp) {
			t.Fatalf("bars not ascending at %d", i)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", calls.Load())
	}
}

func TestFetchCryptoBars_PairsSpanPages(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page_token") == "" {
			fmt.Fprintf(w, `{"bars":{"ETH/USD":%s},"next_page_token":"p2"}`, barsJSON(from, 5*time.Minute, 0, 2))
			return
		}
		fmt.Fprintf(w, `{"bars":{"ETH/USD":%s,"BTC/USD":%s},"next_page_token":null}`,
			barsJSON(from, 5*time.Minute, 2, 1), barsJSON(from, 5*time.Minute, 0, 2))
	}))
	defer srv.Close()

	bars, err := newTestClient(srv).FetchCryptoBars(context.Background(), []string{"ETH/USD", "BTC/USD"}, models.Timeframe5Min, from, 1000)
	if err != nil {
		t.Fatalf("FetchCryptoBars failed: %v", err)
	}
	if len(bars["ETH/USD"]) != 3 || len(bars["BTC/USD"]) != 2 {
		t.Errorf("expected 3 ETH and 2 BTC bars, got %d and %d", len(bars["ETH/USD"]), len(bars["BTC/USD"]))
	}
}

func TestFetchBars_PaginationStopsAtLimit(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %s, want 5", got)
		}
		// the provider keeps offering more pages
		fmt.Fprintf(w, `{"bars":%s,"next_page_token":"more"}`, barsJSON(from, 24*time.Hour, (n-1)*3, 3))
	}))
	defer srv.Close()

	bars, err := newTestClient(srv).FetchBars(context.Background(), "AAPL", models.Timeframe1Day, from, 5)
	if err != nil {
		t.Fatalf("FetchBars failed: %v", err)
	}
	if len(bars) != 5 {
		t.Fatalf("expected 5 bars, got %d", len(bars))
	}
	if bars[4].Close != 4 {
		t.Errorf("expected fifth close 4, got %v", bars[4].Close)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", calls.Load())
	}
}

func TestFetchBars_UnboundedLimitUsesFullPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != strconv.Itoa(maxPageSize) {
			t.Errorf("limit = %s, want %d", got, maxPageSize)
		}
		w.Write([]byte(`{"bars":null,"next_page_token":null}`))
	}))
	defer srv.Close()

	bars, err := newTestClient(srv).FetchBars(context.Background(), "AAPL", models.Timeframe15Min, time.Time{}, 0)
	if err != nil {
		t.Fatalf("FetchBars failed: %v", err)
	}
	if bars == nil || len(bars) != 0 {
		t.Errorf("expected empty non-nil bars, got %v", bars)
	}
}
