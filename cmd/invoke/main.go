// Command invoke runs a single create-package invocation: it reads one Event
// as JSON, handles it with the configured storage backend, and prints the
// Response as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JaimeStill/package-lab/internal/api"
	"github.com/JaimeStill/package-lab/internal/config"
	"github.com/JaimeStill/package-lab/internal/infrastructure"
	"github.com/JaimeStill/package-lab/internal/packages"
	"github.com/JaimeStill/package-lab/pkg/logging"
)

func main() {
	eventPath := flag.String("event", "", "path to the event JSON (default stdin)")
	configDir := flag.String("config", "", "directory containing config.toml")
	flag.Parse()

	if err := run(*eventPath, *configDir, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "invoke:", err)
		os.Exit(1)
	}
}

func run(eventPath, configDir string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := cfg.Finalize(); err != nil {
		return fmt.Errorf("config finalize failed: %w", err)
	}

	ev, err := readEvent(eventPath, stdin)
	if err != nil {
		return err
	}

	infra, err := infrastructure.NewWithLogger(cfg, logging.NewWithWriter(&cfg.Logging, os.Stderr))
	if err != nil {
		return err
	}
	if err := infra.Start(); err != nil {
		return err
	}
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	runtime := api.NewRuntime(infra)
	domain, err := api.NewDomain(runtime, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(infra.Lifecycle.Context(), time.Minute)
	defer cancel()

	if err := domain.Prepare(ctx, cfg); err != nil {
		return fmt.Errorf("prepare storage: %w", err)
	}

	handler := packages.NewHandler(domain.Packages, cfg.Auth, runtime.Logger, cfg.API.MaxBodySizeBytes())
	resp := handler.Handle(ctx, ev)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func readEvent(path string, stdin io.Reader) (packages.Event, error) {
	var r io.Reader = stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return packages.Event{}, fmt.Errorf("open event: %w", err)
		}
		defer f.Close()
		r = f
	}

	var ev packages.Event
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return packages.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}
