package client

import (
	"context"
	"strings"
	"time"

	"github.com/CPU-commits/CareerNest/aggregate"
)

const WHATS_NEW_KEY = "whats-new"

// SearchBox drives the What's New list from typed input: an empty box
// shows the latest items, anything else the search results.
type SearchBox struct {
	ctx       context.Context
	client    *Client
	debouncer *Debouncer
	Results   *Store[string, []aggregate.Item]
	// Called after every load
	OnChange func(slice Slice[[]aggregate.Item])
}

func (s *SearchBox) load(value string) {
	q := strings.TrimSpace(value)
	slice := s.Results.Load(s.ctx, WHATS_NEW_KEY, func(ctx context.Context) ([]aggregate.Item, error) {
		return s.client.WhatsNew(ctx, q, 0)
	})
	if s.OnChange != nil {
		s.OnChange(slice)
	}
}

func (s *SearchBox) Type(value string) {
	s.debouncer.Push(value)
}

func (s *SearchBox) Close() {
	s.debouncer.Stop()
}

func NewSearchBox(ctx context.Context, client *Client, delay time.Duration) *SearchBox {
	box := &SearchBox{
		ctx:     ctx,
		client:  client,
		Results: NewStore[string, []aggregate.Item](),
	}
	box.debouncer = NewDebouncer(delay, box.load)
	return box
}
