package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/keyring"
	"github.com/Naimy441/nutriuni/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized nutriuni storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

// reset deletes the destination database file, refusing to delete the source.
func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if cli.IsPostgres(dbPath) || dbPath == "" {
		// nothing on disk; clear the keyspace once the schema exists
		if err := ctx.Store.Init(); err != nil {
			return err
		}
		if err := ctx.Store.Clear(context.Background()); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
		ctx.Println("Cleared existing data.")
		return nil
	}

	if absDbPath, err := filepath.Abs(dbPath); err == nil {
		dbPath = absDbPath
	}
	if c.Source != "" {
		absSource, err := filepath.Abs(cli.ExpandPath(c.Source))
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context) error {
	sourceStore, err := cli.OpenStore(c.Source, keyring.SourceFlag)
	if err != nil {
		return err
	}
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	n, err := storage.Copy(context.Background(), ctx.Store, sourceStore)
	if err != nil {
		return err
	}
	ctx.Printf("  Migrated %d records\n", n)
	return nil
}
