package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Naimy441/nutriuni/internal/app"
	"github.com/Naimy441/nutriuni/internal/backup"
	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/config"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/keyring"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/notifier"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/storage/memory"
	"github.com/Naimy441/nutriuni/internal/storage/postgres"
	"github.com/Naimy441/nutriuni/internal/storage/sqlite"
)

const (
	jsonScheme   = "json:"
	memoryScheme = "memory:"
)

// Context is handed to every command's Run method.
type Context struct {
	Store        storage.Provider
	SettingsPath string
	Clock        clock.Clock
	Out          io.Writer
	In           io.Reader
	Notifier     app.Notifier

	app *app.App
}

// ExpandPath resolves a leading "~/" against the home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// IsPostgres reports whether location is a PostgreSQL connection string.
func IsPostgres(location string) bool {
	return strings.HasPrefix(location, "postgres://") ||
		strings.HasPrefix(location, "postgresql://") ||
		strings.Contains(location, "host=")
}

// OpenStore picks a backend for location: a PostgreSQL connection string,
// "json:<path>", "memory:", or a sqlite file path. Passwords are only accepted
// in connection strings that came from the environment or the OS keyring.
func OpenStore(location string, src keyring.Source) (storage.Provider, error) {
	switch {
	case IsPostgres(location):
		if _, err := postgres.ValidateConnString(location); err != nil {
			trusted := src == keyring.SourceEnv || src == keyring.SourceKeyring
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
			if !trusted {
				return nil, fmt.Errorf("%w: use the OS keyring ('nutriuni keyring set'), %s, or a .pgpass file", err, constants.DBConnectionEnv)
			}
		}
		return postgres.New(location), nil
	case strings.HasPrefix(location, jsonScheme):
		return storage.NewJSONStore(ExpandPath(strings.TrimPrefix(location, jsonScheme))), nil
	case location == memoryScheme:
		return memory.NewStore(), nil
	case location == "":
		return nil, errors.New("no storage location configured")
	default:
		return sqlite.NewStore(ExpandPath(location)), nil
	}
}

// ConfigDir is where settings, logs and backups live for the current store.
func (c *Context) ConfigDir() string {
	if s, ok := c.Store.(*sqlite.Store); ok {
		return filepath.Dir(s.GetConfigPath())
	}
	if s, ok := c.Store.(*storage.JSONStore); ok {
		return filepath.Dir(s.GetConfigPath())
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nutriuni")
	}
	return "."
}

// SettingsFile is the settings path in use.
func (c *Context) SettingsFile() string {
	if c.SettingsPath == "" {
		return config.DefaultPath(c.ConfigDir())
	}
	return ExpandPath(c.SettingsPath)
}

// Settings loads the settings file, falling back to defaults when it is absent.
func (c *Context) Settings() (models.Settings, error) {
	return config.Load(c.SettingsFile())
}

// BackupManager returns a manager for file-backed sqlite stores only.
func (c *Context) BackupManager() (*backup.Manager, bool) {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return nil, false
	}
	return backup.NewManager(s.GetConfigPath(), backup.WithClock(c.clock())), true
}

func (c *Context) clock() clock.Clock {
	if c.Clock == nil {
		return clock.Real{}
	}
	return c.Clock
}

func (c *Context) Now() time.Time {
	return c.clock().Now()
}

// App builds and starts the application on first use. The store must already be loaded.
func (c *Context) App(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}

	opts := app.Options{
		KV:       c.Store,
		Settings: settings,
		Clock:    c.clock(),
		Notifier: c.Notifier,
	}
	if opts.Notifier == nil && settings.TrayNotifications {
		opts.Notifier = notifier.New()
	}
	if mgr, ok := c.BackupManager(); ok {
		opts.Backup = mgr
	}

	a, err := app.New(opts)
	if err != nil {
		return nil, err
	}
	if err := a.Start(ctx); err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// Close shuts down the application if it was started.
func (c *Context) Close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Confirm asks a yes/no question on the context's input. Anything but y/yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.in()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// MatchID resolves an id or a unique id prefix against ids.
func MatchID(ids []string, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.New("id cannot be empty")
	}
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no entry with id %q", prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", prefix, len(found))
	}
}
