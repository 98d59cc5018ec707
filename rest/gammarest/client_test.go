package gammarest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMarketsQueryEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("slug"); got != "us-election,fed-rates" {
			t.Errorf("slug = %q", got)
		}
		if got := q.Get("active"); got != "true" {
			t.Errorf("active = %q, want true", got)
		}
		if got := q.Get("limit"); got != "10" {
			t.Errorf("limit = %q, want 10", got)
		}
		w.Write([]byte(`[{"id":"m1","question":"Who wins?","negRisk":true}]`))
	}))
	defer srv.Close()

	active := true
	c := New(srv.URL)
	markets, err := c.Markets(context.Background(), MarketsQuery{
		Slugs:  []string{"us-election", "fed-rates"},
		Active: &active,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("Markets() error = %v", err)
	}
	if len(markets) != 1 || markets[0].ID != "m1" || !markets[0].NegRisk {
		t.Errorf("markets = %+v", markets)
	}
}

func TestEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Errorf("path = %s, want /events", r.URL.Path)
		}
		w.Write([]byte(`[{"id":"e1","title":"Election night","markets":[{"id":"m1"}]}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	events, err := c.Events(context.Background(), EventsQuery{})
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 1 || len(events[0].Markets) != 1 {
		t.Errorf("events = %+v", events)
	}
}
