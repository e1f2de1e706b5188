package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golfmaster/pkg/logger"

	bolt "go.etcd.io/bbolt"
)

const bucketIdempotency = "idempotency"

// BoltIdempotencyStore persists cached responses in a local bbolt file so a
// restarted instance still recognises retried requests.
type BoltIdempotencyStore struct {
	db       *bolt.DB
	ttl      time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewBoltIdempotencyStore(path string, ttl time.Duration, log *logger.Logger) (*BoltIdempotencyStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening idempotency store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketIdempotency)); err != nil {
			return fmt.Errorf("creating idempotency bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltIdempotencyStore{
		db:     db,
		ttl:    ttl,
		log:    log,
		stopCh: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanup()

	return s, nil
}

func (s *BoltIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	var cached *CachedResponse

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketIdempotency)).Get([]byte(key))
		if data == nil {
			return nil
		}
		var resp CachedResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return err
		}
		cached = &resp
		return nil
	})
	if err != nil {
		s.log.Error("Failed to read idempotency record", "error", err)
		return nil, false
	}
	if cached == nil || cached.expired(s.ttl) {
		return nil, false
	}
	return cached, true
}

func (s *BoltIdempotencyStore) Set(key string, response *CachedResponse) {
	response.CreatedAt = time.Now()

	data, err := json.Marshal(response)
	if err != nil {
		s.log.Error("Failed to encode idempotency record", "error", err)
		return
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketIdempotency)).Put([]byte(key), data)
	})
	if err != nil {
		s.log.Error("Failed to write idempotency record", "error", err)
	}
}

// Purge deletes expired records and returns how many were removed.
func (s *BoltIdempotencyStore) Purge() (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketIdempotency))

		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var resp CachedResponse
			if err := json.Unmarshal(v, &resp); err != nil || resp.expired(s.ttl) {
				expired = append(expired, bytes.Clone(k))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	return removed, err
}

func (s *BoltIdempotencyStore) cleanup() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := s.Purge(); err != nil {
				s.log.Error("Idempotency store cleanup failed", "error", err)
			} else if n > 0 {
				s.log.Debug("Idempotency store cleanup", "removed", n)
			}
		case <-s.stopCh:
			return
		}
	}
}

// Stop ends the cleanup loop and closes the database file.
func (s *BoltIdempotencyStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		if err := s.db.Close(); err != nil {
			s.log.Error("Failed to close idempotency store", "error", err)
		}
	})
}
