package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

const defaultMaxEntries = 2048

type entry struct {
	resource string
	value    any
	storedAt time.Time
}

// Cache - кэш GET-запросов к бэкенду: свежесть по времени, склейка одинаковых
// параллельных запросов и сброс по ресурсу после мутаций.
type Cache struct {
	staleTime  time.Duration
	maxEntries int
	now        func() time.Time

	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]uint64

	group singleflight.Group
}

func New(staleTime time.Duration) *Cache {
	return &Cache{
		staleTime:   staleTime,
		maxEntries:  defaultMaxEntries,
		now:         time.Now,
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
	}
}

// scope отделяет данные разных сессий друг от друга.
func scope(ctx context.Context) string {
	token := contextkeys.AccessTokenFromContext(ctx)
	if token == "" {
		return "anon"
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// Fetch возвращает свежее значение из кэша или вызывает fetch.
// Ошибки не кэшируются.
func (c *Cache) Fetch(ctx context.Context, resource, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	fullKey := scope(ctx) + "|" + resource + "|" + key
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "QueryCache",
		"resource":  resource,
	})

	c.mu.Lock()
	if e, ok := c.entries[fullKey]; ok && c.now().Sub(e.storedAt) < c.staleTime {
		c.mu.Unlock()
		logger.Debug("Cache hit", port.Fields{"key": key})
		return e.value, nil
	}
	gen := c.generations[resource]
	c.mu.Unlock()

	// Поколение в ключе не дает новым запросам присоединиться к запросу,
	// начатому до инвалидации.
	flightKey := fullKey + "#" + strconv.FormatUint(gen, 10)
	value, err, shared := c.group.Do(flightKey, func() (any, error) {
		// Общий запрос не должен отменяться, если ушел первый из ожидающих.
		value, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(fullKey, resource, gen, value)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Cache miss", port.Fields{"key": key, "shared": shared})
	return value, nil
}

func (c *Cache) store(fullKey, resource string, gen uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[resource] != gen {
		return
	}
	if len(c.entries) >= c.maxEntries {
		c.pruneLocked()
	}
	c.entries[fullKey] = entry{resource: resource, value: value, storedAt: c.now()}
}

// pruneLocked удаляет устаревшие записи, а если их нет - очищает кэш целиком.
func (c *Cache) pruneLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.staleTime {
			delete(c.entries, k)
		}
	}
	if len(c.entries) >= c.maxEntries {
		c.entries = make(map[string]entry)
	}
}

// Invalidate сбрасывает все записи указанных ресурсов во всех сессиях.
func (c *Cache) Invalidate(ctx context.Context, resources ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	drop := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		drop[r] = struct{}{}
		c.generations[r]++
	}
	removed := 0
	for k, e := range c.entries {
		if _, ok := drop[e.resource]; ok {
			delete(c.entries, k)
			removed++
		}
	}

	contextkeys.LoggerFromContext(ctx).Debug("Cache invalidated", port.Fields{
		"component": "QueryCache",
		"resources": resources,
		"removed":   removed,
	})
}

// Len - число записей, в том числе устаревших.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
