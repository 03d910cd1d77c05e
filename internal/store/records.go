// Cocktail Advisor - Conversational Cocktail Recommendation Service
// Copyright 2026 Ramal M. (ramalmr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ramalmr/cocktail-advisor

// Package store provides the BadgerDB-backed record store that serves
// full cocktail documents during recommendation assembly. Entries carry
// a TTL so the store behaves as a bounded cache over the catalog.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ramalmr/cocktail-advisor/internal/metrics"
	"github.com/ramalmr/cocktail-advisor/internal/models"
)

// ErrStoreUnavailable signals that the record store itself is down, as
// opposed to a key simply being absent or expired.
var ErrStoreUnavailable = errors.New("store: record store unavailable")

const keyPrefix = "cocktail:"

// Config controls where and how the record store opens.
type Config struct {
	// Path is the on-disk location. Ignored when InMemory is set.
	Path string

	// InMemory runs Badger without persistence. Used by tests and by
	// deployments that treat the store as a pure cache.
	InMemory bool

	// TTL bounds how long a record stays readable after its last write.
	TTL time.Duration
}

// Records stores serialized cocktails keyed by ID.
type Records struct {
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger
}

// Open creates or opens the record store.
func Open(cfg Config, logger zerolog.Logger) (*Records, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("store: ttl must be positive, got %v", cfg.TTL)
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	log := logger.With().Str("component", "record_store").Logger()
	log.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("ttl", cfg.TTL).
		Msg("Record store opened")

	return &Records{db: db, ttl: cfg.TTL, logger: log}, nil
}

// Put writes one cocktail with the configured TTL.
func (r *Records) Put(c *models.Cocktail) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cocktail %d: %w", c.ID, err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(recordKey(c.ID), data).WithTTL(r.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		metrics.RecordStoreErrors.Inc()
		return r.wrapUnavailable(err, "put cocktail %d", c.ID)
	}
	return nil
}

// PutBatch writes many cocktails through a Badger write batch, which is
// substantially faster than per-record transactions during ingestion.
func (r *Records) PutBatch(cocktails []*models.Cocktail) error {
	wb := r.db.NewWriteBatch()
	defer wb.Cancel()

	for _, c := range cocktails {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode cocktail %d: %w", c.ID, err)
		}
		entry := badger.NewEntry(recordKey(c.ID), data).WithTTL(r.ttl)
		if err := wb.SetEntry(entry); err != nil {
			metrics.RecordStoreErrors.Inc()
			return r.wrapUnavailable(err, "batch put cocktail %d", c.ID)
		}
	}

	if err := wb.Flush(); err != nil {
		metrics.RecordStoreErrors.Inc()
		return r.wrapUnavailable(err, "flush batch of %d cocktails", len(cocktails))
	}
	return nil
}

// Get fetches one cocktail. The boolean reports presence: a missing or
// expired key returns (nil, false, nil), and an error is returned only
// when the store itself failed.
func (r *Records) Get(id int64) (*models.Cocktail, bool, error) {
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordStoreMisses.Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordStoreErrors.Inc()
		return nil, false, r.wrapUnavailable(err, "get cocktail %d", id)
	}

	var c models.Cocktail
	if err := json.Unmarshal(data, &c); err != nil {
		metrics.RecordStoreErrors.Inc()
		return nil, false, fmt.Errorf("decode cocktail %d: %w", id, err)
	}

	metrics.RecordStoreHits.Inc()
	return &c, true, nil
}

// Close releases the underlying database.
func (r *Records) Close() error {
	return r.db.Close()
}

func (r *Records) wrapUnavailable(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, badger.ErrDBClosed) || errors.Is(err, badger.ErrBlockedWrites) {
		return fmt.Errorf("%s: %w: %w", msg, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func recordKey(id int64) []byte {
	return []byte(keyPrefix + strconv.FormatInt(id, 10))
}
