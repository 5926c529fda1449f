package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notifyChannel = "kv_changed"

// Postgres persists entries in a single kv_entries table and pushes change
// notifications through LISTEN/NOTIFY. An AFTER INSERT OR UPDATE trigger
// (see migrations) emits the written path on the kv_changed channel; a
// dedicated listening connection re-reads the value and fans it out to
// subscribers. Propagation is asynchronous, which matches the engine's
// tolerance for slightly stale reads.
type Postgres struct {
	pool *pgxpool.Pool

	subMu  sync.Mutex
	nextID int
	subs   map[int]memorySub

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Postgres{
		pool:   pool,
		subs:   make(map[int]memorySub),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.listen(ctx)
	return p
}

func (p *Postgres) Get(ctx context.Context, path string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE path = $1`, path).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, path string, value []byte) error {
	_, err := p.pool.Exec(ctx, upsertSQL, path, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

const upsertSQL = `
	INSERT INTO kv_entries (path, value, updated_at) VALUES ($1, $2, now())
	ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

// Update writes the whole batch in one transaction.
func (p *Postgres) Update(ctx context.Context, entries map[string][]byte) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	for path, value := range entries {
		if _, err := tx.Exec(ctx, upsertSQL, path, value); err != nil {
			return fmt.Errorf("update %s: %w", path, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT path, value FROM kv_entries WHERE path LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var path string
		var value []byte
		if err := rows.Scan(&path, &value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", prefix, err)
		}
		out[path] = value
	}
	return out, rows.Err()
}

func (p *Postgres) Delete(ctx context.Context, path string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_entries WHERE path = $1`, path)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (p *Postgres) Subscribe(prefix string, handler ChangeHandler) func() {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = memorySub{prefix: prefix, handler: handler}
	return func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		delete(p.subs, id)
	}
}

func (p *Postgres) Close() {
	p.cancel()
	<-p.done
}

func (p *Postgres) listen(ctx context.Context) {
	defer close(p.done)
	for {
		if err := p.listenOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("kv listener disconnected, reconnecting", "error", err)
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (p *Postgres) listenOnce(ctx context.Context) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("listen %s: %w", notifyChannel, err)
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		p.dispatch(ctx, n.Payload)
	}
}

func (p *Postgres) dispatch(ctx context.Context, path string) {
	p.subMu.Lock()
	var handlers []ChangeHandler
	for _, s := range p.subs {
		if strings.HasPrefix(path, s.prefix) {
			handlers = append(handlers, s.handler)
		}
	}
	p.subMu.Unlock()

	if len(handlers) == 0 {
		return
	}
	value, err := p.Get(ctx, path)
	if err != nil {
		slog.Warn("failed to read changed path", "path", path, "error", err)
		return
	}
	for _, h := range handlers {
		h(path, value)
	}
}
