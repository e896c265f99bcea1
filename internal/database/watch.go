package database

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/constants"
)

// ChangeFeed fans out "albums changed" signals to subscribers inside one
// process. Signals coalesce: a slow subscriber sees at most one pending change.
type ChangeFeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewChangeFeed creates an empty feed.
func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{subs: make(map[int]chan struct{})}
}

// Subscribe returns a signal channel and a function that unsubscribes and closes it.
func (f *ChangeFeed) Subscribe() (<-chan struct{}, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	ch := make(chan struct{}, 1)
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
}

// Notify signals every subscriber without blocking.
func (f *ChangeFeed) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// StreamAlbums emits list() once immediately and again after every signal on
// changes, until ctx is done or changes is closed. List errors are logged and
// the previous snapshot stays current. The returned channel is closed on exit
// and done is called before closing.
func StreamAlbums(
	ctx context.Context,
	log zerolog.Logger,
	list func(ctx context.Context) ([]Album, error),
	changes <-chan struct{},
	done func(),
) <-chan []Album {
	out := make(chan []Album, constants.AlbumWatchBuffer)

	go func() {
		defer close(out)
		if done != nil {
			defer done()
		}

		emit := func() bool {
			albums, err := list(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Msg("failed to reload albums")
				}
				return true
			}
			select {
			case out <- albums:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok || !emit() {
					return
				}
			}
		}
	}()

	return out
}
