// Package catalog serves restaurant menus from a directory of <slug>.json files.
package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Naimy441/nutriuni/internal/logger"
	"github.com/Naimy441/nutriuni/internal/models"
)

//go:embed data/*.json
var bundled embed.FS

var (
	ErrUnknownRestaurant = errors.New("unknown restaurant")
	ErrUnknownItem       = errors.New("unknown menu item")
)

// menuFile is the on-disk layout of one restaurant.
type menuFile struct {
	Restaurant string            `json:"restaurant"`
	Items      []models.MenuItem `json:"items"`
}

// Match is a search hit.
type Match struct {
	Restaurant string
	Item       models.MenuItem
}

// Catalog is safe for concurrent use. Menus are parsed on first access and cached.
type Catalog struct {
	fsys fs.FS

	mu      sync.Mutex
	names   map[string]string // slug -> display name
	scanned bool
	menus   map[string][]models.MenuItem // slug -> items
}

func New(fsys fs.FS) *Catalog {
	return &Catalog{
		fsys:  fsys,
		names: make(map[string]string),
		menus: make(map[string][]models.MenuItem),
	}
}

// Bundled returns the catalog compiled into the binary.
func Bundled() *Catalog {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		// data/ is embedded at build time, so this cannot fail
		panic(err)
	}
	return New(sub)
}

// Slug maps a restaurant name to its file stem: "Halal Shack" -> "halal-shack".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (c *Catalog) readFile(name string) (menuFile, error) {
	data, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		return menuFile{}, err
	}
	var mf menuFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return menuFile{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if mf.Restaurant == "" {
		mf.Restaurant = strings.TrimSuffix(name, path.Ext(name))
	}
	return mf, nil
}

// scanLocked records the display name of every menu file. Files that fail to
// parse are skipped.
func (c *Catalog) scanLocked() error {
	if c.scanned {
		return nil
	}
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read menu directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), ".json")
		if _, ok := c.names[slug]; ok {
			continue
		}
		mf, err := c.readFile(e.Name())
		if err != nil {
			logger.Warn("Skipping unreadable menu", "file", e.Name(), "error", err)
			continue
		}
		c.names[slug] = mf.Restaurant
		c.menus[slug] = mf.Items
	}
	c.scanned = true
	return nil
}

// Restaurants returns every restaurant name, sorted.
func (c *Catalog) Restaurants() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.scanLocked(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(c.names))
	for _, name := range c.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// resolveLocked finds the slug for restaurant, loading only its file when the
// name maps directly onto one.
func (c *Catalog) resolveLocked(restaurant string) (string, error) {
	slug := Slug(restaurant)
	if _, ok := c.menus[slug]; ok {
		return slug, nil
	}

	mf, err := c.readFile(slug + ".json")
	if err == nil {
		c.names[slug] = mf.Restaurant
		c.menus[slug] = mf.Items
		return slug, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	// fall back to matching display names, for files whose stem differs
	if err := c.scanLocked(); err != nil {
		return "", err
	}
	for s, name := range c.names {
		if strings.EqualFold(name, strings.TrimSpace(restaurant)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%q: %w", restaurant, ErrUnknownRestaurant)
}

// Menu returns the items of one restaurant. The name is matched case-insensitively.
func (c *Catalog) Menu(restaurant string) ([]models.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slug, err := c.resolveLocked(restaurant)
	if err != nil {
		return nil, err
	}
	items := make([]models.MenuItem, len(c.menus[slug]))
	copy(items, c.menus[slug])
	return items, nil
}

// Name returns the display name of restaurant as written in its menu file.
func (c *Catalog) Name(restaurant string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slug, err := c.resolveLocked(restaurant)
	if err != nil {
		return "", err
	}
	return c.names[slug], nil
}

// Lookup finds one item by restaurant and item name, both case-insensitive.
func (c *Catalog) Lookup(restaurant, item string) (models.MenuItem, error) {
	items, err := c.Menu(restaurant)
	if err != nil {
		return models.MenuItem{}, err
	}
	for _, it := range items {
		if strings.EqualFold(it.Name, strings.TrimSpace(item)) {
			return it, nil
		}
	}
	return models.MenuItem{}, fmt.Errorf("%q at %q: %w", item, restaurant, ErrUnknownItem)
}

// Search returns items whose name contains query, ordered by restaurant then
// menu position. limit <= 0 returns every match.
func (c *Catalog) Search(query string, limit int) ([]Match, error) {
	names, err := c.Restaurants()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))

	var matches []Match
	for _, name := range names {
		items, err := c.Menu(name)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if !strings.Contains(strings.ToLower(it.Name), q) {
				continue
			}
			matches = append(matches, Match{Restaurant: name, Item: it})
			if limit > 0 && len(matches) == limit {
				return matches, nil
			}
		}
	}
	return matches, nil
}
