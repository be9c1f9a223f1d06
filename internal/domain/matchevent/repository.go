package matchevent

import "context"

// Filter narrows event queries. Zero-value fields are ignored.
type Filter struct {
	PlayerID string
	Type     EventType
}

type Repository interface {
	Append(ctx context.Context, event Event) error
	ListByMatch(ctx context.Context, matchID string, filter Filter) ([]Event, error)
}
