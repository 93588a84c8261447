package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/mcc/internal/domain"
)

// Bucket names
var (
	bucketSession = []byte("session")
	bucketLabels  = []byte("labels")
)

// Keys
const (
	keyLoginDetails = "login-details"
	keyLabelList    = "list"
)

// storedLogin is the persisted form of a session
type storedLogin struct {
	APIURL   string      `json:"apiUrl"`
	MediaURL string      `json:"mediaUrl"`
	Token    storedToken `json:"token"`
}

type storedToken struct {
	Type   string    `json:"type"`
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// BoltStore implements domain.Store using BoltDB.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for reads (promoted on access)
	cache map[string][]byte
}

var _ domain.Store = (*BoltStore)(nil)

// NewBoltStore opens (or creates) the database at path. An empty path gives
// a memory-only store that forgets everything on exit.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return &BoltStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSession, bucketLabels} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *BoltStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *BoltStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *BoltStore) delete(bucket []byte, key string) error {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// === Session ===

// LoadSession returns the persisted login, false when logged out or when the
// record cannot be decoded.
func (s *BoltStore) LoadSession() (*domain.Session, bool) {
	var stored storedLogin
	if !s.get(bucketSession, keyLoginDetails, &stored) {
		return nil, false
	}
	return &domain.Session{
		APIBaseURL:   stored.APIURL,
		MediaBaseURL: stored.MediaURL,
		Token: domain.LoginToken{
			Type:   stored.Token.Type,
			Value:  stored.Token.Token,
			Expiry: stored.Token.Expiry,
		},
	}, true
}

// SaveSession overwrites the persisted login. nil removes it along with the
// cached labels, which belong to the account that logged out.
func (s *BoltStore) SaveSession(session *domain.Session) error {
	if session == nil {
		if err := s.delete(bucketSession, keyLoginDetails); err != nil {
			return fmt.Errorf("failed to remove session: %w", err)
		}
		if err := s.delete(bucketLabels, keyLabelList); err != nil {
			return fmt.Errorf("failed to remove cached labels: %w", err)
		}
		return nil
	}

	stored := storedLogin{
		APIURL:   session.APIBaseURL,
		MediaURL: session.MediaBaseURL,
		Token: storedToken{
			Type:   session.Token.Type,
			Token:  session.Token.Value,
			Expiry: session.Token.Expiry,
		},
	}
	if err := s.set(bucketSession, keyLoginDetails, stored); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// === Labels ===

func (s *BoltStore) GetLabels() ([]string, bool) {
	var labels []string
	ok := s.get(bucketLabels, keyLabelList, &labels)
	return labels, ok
}

func (s *BoltStore) SaveLabels(labels []string) error {
	return s.set(bucketLabels, keyLabelList, labels)
}
