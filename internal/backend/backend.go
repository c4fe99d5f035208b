// Package backend wires the configured ledger store and the optional AMQP
// client into one bundle for the entrypoints.
package backend

import (
	"fmt"

	"budget/internal/amqp"
	"budget/internal/config"
	"budget/internal/ledger"
	"budget/internal/ledger/boltdb"
	"budget/internal/ledger/memory"
	"budget/internal/log"
)

// BackendType represents the configured store flavor.
type BackendType string

const (
	BoltBackend   BackendType = "bolt"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string { return string(bt) }

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case BoltBackend, MemoryBackend:
		return true
	}
	return false
}

// Result bundles the created stores with an optional events client and a
// cleanup function.
type Result struct {
	Store    ledger.Store
	Settings ledger.SettingsStore
	Events   *amqp.Client
	Cleanup  func() error
}

// Factory creates backends based on configuration
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend builds the store selected by cfg.DataBackend plus the AMQP
// client when an URL is configured. A broker that is down is logged and
// skipped, never fatal.
func (f *Factory) CreateBackend(cfg *config.Config) (*Result, error) {
	backendType := BackendType(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without ledger events", "error", err)
			events = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	switch backendType {
	case BoltBackend:
		store, err := boltdb.New(cfg.BoltDBPath)
		if err != nil {
			if events != nil {
				_ = events.Close()
			}
			return nil, fmt.Errorf("initialize bolt store: %w", err)
		}
		f.logger.Info("Initialized bolt backend", "db_path", cfg.BoltDBPath, "amqp_enabled", events != nil)
		return &Result{
			Store:    store,
			Settings: store,
			Events:   events,
			Cleanup: func() error {
				if events != nil {
					_ = events.Close()
				}
				return store.Close()
			},
		}, nil
	default:
		store := memory.New()
		f.logger.Info("Initialized memory backend", "amqp_enabled", events != nil)
		return &Result{
			Store:    store,
			Settings: store,
			Events:   events,
			Cleanup: func() error {
				if events != nil {
					return events.Close()
				}
				return nil
			},
		}, nil
	}
}
