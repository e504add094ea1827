// Command seed loads demo users into the configured store. Running it twice is safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"heartlink/internal/app/di"
	"heartlink/internal/platform/config"
)

func main() {
	fixturePath := flag.String("fixture", "", "YAML fixture to load instead of the embedded demo users")
	flag.Parse()

	if err := run(*fixturePath); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(fixturePath string) error {
	data := defaultFixture
	if fixturePath != "" {
		b, err := os.ReadFile(fixturePath)
		if err != nil {
			return fmt.Errorf("read fixture: %w", err)
		}
		data = b
	}
	f, err := parseFixture(data)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// only the store settings are needed here
	stores, err := di.NewStores(ctx, config.FromEnv())
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	n, err := seed(ctx, stores.Users, f, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	slog.Info("seed ok", "created", n, "total", len(f.Users))
	return nil
}
