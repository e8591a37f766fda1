package catalog

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"geo-quiz-service/internal/domain"
)

// Catalog holds resolved country records keyed by country code, the display
// names used for border resolution, and an optional curated pool of codes
// preferred for questions. It is safe for concurrent use and answers queries
// while still empty.
type Catalog struct {
	mu      sync.RWMutex
	records map[string]domain.CountryRecord
	names   map[string]string
	codes   []string
	known   map[string]struct{}
	pool    []string

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithRand replaces the random source, mostly for deterministic tests.
func WithRand(rnd *rand.Rand) Option {
	return func(c *Catalog) { c.rnd = rnd }
}

func New(opts ...Option) *Catalog {
	c := &Catalog{
		records: make(map[string]domain.CountryRecord),
		names:   make(map[string]string),
		known:   make(map[string]struct{}),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveBorders turns raw neighbour codes into a comma-joined list of display
// names. Codes are trimmed and uppercased; non-string, empty and unknown
// entries are dropped. Anything that is not a list, or that yields no names,
// resolves to domain.NoBorders.
func (c *Catalog) ResolveBorders(raw any) string {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		return domain.NoBorders
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(items))
	for _, item := range items {
		code, ok := item.(string)
		if !ok {
			continue
		}
		code = normalizeCode(code)
		if code == "" {
			continue
		}
		if name := c.names[code]; name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return domain.NoBorders
	}
	return strings.Join(names, ", ")
}

// SetDisplayName registers the name a border code resolves to and makes the
// code selectable.
func (c *Catalog) SetDisplayName(code, name string) {
	code = normalizeCode(code)
	if code == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[code] = name
	c.addCodeLocked(code)
}

// setDisplayNameIfMissing fills a name only where the shape feed left a gap.
func (c *Catalog) setDisplayNameIfMissing(code, name string) {
	code = normalizeCode(code)
	if code == "" || name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.names[code] == "" {
		c.names[code] = name
	}
}

// Upsert inserts or overwrites the record for code. The last writer wins.
func (c *Catalog) Upsert(code string, record domain.CountryRecord) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[code] = record
	c.addCodeLocked(code)
}

// SetPool replaces the curated subset of codes preferred for questions.
func (c *Catalog) SetPool(codes []string) {
	pool := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			pool = append(pool, code)
		}
	}
	c.mu.Lock()
	c.pool = pool
	c.mu.Unlock()
}

// PickRandomCode selects the country for the next question. A non-empty pool
// is drawn from first; a drawn code missing from the records falls back to a
// case-insensitive match over all known codes, preferring codes that carry a
// record, and then to a uniform choice over the whole catalog. It returns ""
// when nothing is known yet.
func (c *Catalog) PickRandomCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.pool) > 0 {
		drawn := c.pool[c.intn(len(c.pool))]
		if _, ok := c.records[drawn]; ok {
			return drawn
		}
		if code, ok := c.recordCodeFoldLocked(drawn); ok {
			return code
		}
		for _, code := range c.codes {
			if strings.EqualFold(code, drawn) {
				return code
			}
		}
	}
	if len(c.codes) == 0 {
		return ""
	}
	return c.codes[c.intn(len(c.codes))]
}

// Record returns the record stored under code, matching the code
// case-insensitively when there is no exact key.
func (c *Catalog) Record(code string) (domain.CountryRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if rec, ok := c.records[code]; ok {
		return rec, true
	}
	if rec, ok := c.records[normalizeCode(code)]; ok {
		return rec, true
	}
	if key, ok := c.recordCodeFoldLocked(code); ok {
		return c.records[key], true
	}
	return domain.CountryRecord{}, false
}

// FindByName looks a country up by record name or display name, ignoring case.
func (c *Catalog) FindByName(name string) (domain.CountryRecord, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.CountryRecord{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, code := range c.codes {
		if rec, ok := c.records[code]; ok && strings.EqualFold(rec.Name, name) {
			return rec, true
		}
	}
	for _, code := range c.codes {
		if strings.EqualFold(c.names[normalizeCode(code)], name) {
			if rec, ok := c.records[code]; ok {
				return rec, true
			}
		}
	}
	return domain.CountryRecord{}, false
}

// CanonicalName is the name a correct answer is compared against: the record
// name when there is a record, otherwise the display name.
func (c *Catalog) CanonicalName(code string) (string, bool) {
	if rec, ok := c.Record(code); ok {
		return rec.Name, true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[normalizeCode(code)]
	return name, ok && name != ""
}

// Len reports how many full records the catalog holds.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// PoolSize reports the size of the curated pool.
func (c *Catalog) PoolSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pool)
}

// recordCodeFoldLocked finds the record key equal to code ignoring case.
func (c *Catalog) recordCodeFoldLocked(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	for _, known := range c.codes {
		if _, ok := c.records[known]; ok && strings.EqualFold(known, code) {
			return known, true
		}
	}
	return "", false
}

func (c *Catalog) addCodeLocked(code string) {
	if _, ok := c.known[code]; ok {
		return
	}
	c.known[code] = struct{}{}
	c.codes = append(c.codes, code)
}

func (c *Catalog) intn(n int) int {
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.rnd.Intn(n)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
