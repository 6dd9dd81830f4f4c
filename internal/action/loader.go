package action

import (
	"context"
	"io"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/idilsaglam/dreams/internal/cache"
	"github.com/idilsaglam/dreams/internal/logger"
	"github.com/idilsaglam/dreams/internal/model"
	"github.com/idilsaglam/dreams/internal/notify"
)

// Client is the slice of the REST API the actions need. *api.Client satisfies it.
type Client interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	Stats(ctx context.Context) (model.Stats, error)
	CreateItem(ctx context.Context, in model.NewItem) (model.Item, error)
	UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (model.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	UploadPhoto(ctx context.Context, itemID int64, filename string, r io.Reader) (model.Item, error)
	DeletePhoto(ctx context.Context, photoID int64) error
}

// Notifier receives user-visible toasts. *notify.Center satisfies it.
type Notifier interface {
	Success(msg string) notify.Toast
	Error(msg string) notify.Toast
}

const msgLoadFailed = "Failed to load items"

// Loader refreshes the item cache and fetches stats.
//
// Overlapping reads share one request, but only within a generation: the
// runner starts a new generation after every acknowledged write, so a reload
// that follows a mutation never joins a GET that was sent before it.
type Loader struct {
	client Client
	items  *cache.Items
	notes  Notifier
	sf     singleflight.Group

	mu      sync.Mutex
	gen     uint64
	applied uint64 // generation of the list currently cached
}

func NewLoader(client Client, items *cache.Items, notes Notifier) *Loader {
	return &Loader{client: client, items: items, notes: notes}
}

// Invalidate starts a new generation. Requests already in flight can still
// finish but are neither joined by later callers nor allowed to overwrite a
// newer list.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
}

func (l *Loader) generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// share runs fn once per key among concurrent callers. fn gets a context
// that outlives any single caller; each caller still stops waiting when its
// own ctx is done.
func (l *Loader) share(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := l.sf.DoChan(key, func() (any, error) { return fn(detached) })
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LoadItems replaces the cache with the server's list and returns a snapshot.
// On failure the cache keeps its previous contents and an error toast is raised.
func (l *Loader) LoadItems(ctx context.Context) ([]model.Item, error) {
	gen := l.generation()
	_, err := l.share(ctx, "items:"+strconv.FormatUint(gen, 10), func(ctx context.Context) (any, error) {
		items, err := l.client.ListItems(ctx)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if gen >= l.applied {
			l.items.Replace(items)
			l.applied = gen
		}
		return nil, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.LogError("loading items: %v", err)
		l.notes.Error(msgLoadFailed)
		return nil, err
	}
	return l.items.Snapshot(), nil
}

// LoadStats fetches aggregate counts. Failures are logged only; stats are
// not worth interrupting the user for.
func (l *Loader) LoadStats(ctx context.Context) (model.Stats, error) {
	key := "stats:" + strconv.FormatUint(l.generation(), 10)
	v, err := l.share(ctx, key, func(ctx context.Context) (any, error) {
		return l.client.Stats(ctx)
	})
	if err != nil {
		logger.LogError("loading stats: %v", err)
		return model.Stats{}, err
	}
	return v.(model.Stats), nil
}

// Items exposes the cache for modal hydration.
func (l *Loader) Items() *cache.Items { return l.items }
