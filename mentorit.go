// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package mentorit wires the persisted mentor catalog, the catalog session
// and the search and ingestion services into a single Database handle.
package mentorit

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/config"
	"github.com/poiesic/mentorit/ingestion"
	"github.com/poiesic/mentorit/search"
	"github.com/poiesic/mentorit/storage"
	"github.com/poiesic/mentorit/storage/badger"
)

type Database struct {
	backend      *badger.Backend
	mentorRepo   *badger.MentorRepository
	manifestRepo *badger.ManifestRepository
	session      *catalog.Session
	cfg          *config.Config
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	cfg      *config.Config
	inMemory bool
	logger   *slog.Logger
}

// WithConfig sets the configuration used for sessions, searchers and
// pipelines. Default is config.Default().
func WithConfig(cfg *config.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithInMemory keeps the catalog in memory instead of on disk.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		cfg:    config.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory, badger.WithBackendLogger(options.logger))
	if err != nil {
		return nil, err
	}

	mentorRepo, err := badger.NewMentorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	session, err := catalog.NewSession(mentorRepo,
		catalog.WithRetry(options.cfg.Load.MaxAttempts, options.cfg.RetryDelay()),
		catalog.WithLogger(options.logger))
	if err != nil {
		mentorRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:      backend,
		mentorRepo:   mentorRepo,
		manifestRepo: badger.NewManifestRepository(backend),
		session:      session,
		cfg:          options.cfg,
		logger:       options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.mentorRepo.Close(); err != nil {
		db.logger.Error("error closing mentor repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) MentorRepository() storage.MentorRepository {
	return db.mentorRepo
}

func (db *Database) ManifestRepository() storage.ManifestRepository {
	return db.manifestRepo
}

// Session returns the catalog session backed by the stored mentors.
func (db *Database) Session() *catalog.Session {
	return db.session
}

// Config returns the active configuration.
func (db *Database) Config() *config.Config {
	return db.cfg
}

// Load refreshes the session catalog from storage.
func (db *Database) Load(ctx context.Context) (catalog.Report, error) {
	return db.session.Load(ctx)
}

// Import stores the records read from r and reloads the session so that
// searchers see the new catalog.
func (db *Database) Import(ctx context.Context, name string, r io.Reader, mode ingestion.Mode, opts ...ingestion.Option) (*ingestion.Result, error) {
	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	result, err := pipeline.Import(ctx, name, r, mode)
	if err != nil {
		// An interrupted append may have stored some batches
		if result != nil && result.Written > 0 {
			if _, loadErr := db.session.Load(context.WithoutCancel(ctx)); loadErr != nil {
				db.logger.Error("reloading catalog after failed import", "err", loadErr)
			}
		}
		return result, err
	}
	if _, err := db.session.Load(ctx); err != nil {
		return result, fmt.Errorf("reloading catalog: %w", err)
	}
	return result, nil
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base := []ingestion.Option{
		ingestion.WithManifests(db.manifestRepo),
		ingestion.WithLogger(db.logger),
	}
	if db.cfg.Import.PoolSize > 0 {
		base = append(base, ingestion.WithPoolSize(db.cfg.Import.PoolSize))
	}
	if db.cfg.Import.BatchSize > 0 {
		base = append(base, ingestion.WithBatchSize(db.cfg.Import.BatchSize))
	}
	return ingestion.NewPipeline(db.mentorRepo, append(base, opts...)...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{
		search.WithCacheSize(db.cfg.Search.CacheSize),
		search.WithLogger(db.logger),
	}
	return search.NewSearcher(db.session, append(base, opts...)...)
}
