// Package artifactStore persists encrypted and decrypted artifacts so they
// can be downloaded again after the request that produced them. Blobs are
// keyed kind/name and stored LZMA-compressed in a badger database.
package artifactStore

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/shirou/gopsutil/disk"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when no artifact exists under the requested name.
var ErrNotFound = errors.New("artifactStore: artifact not found")

type StoreConfig struct {
	Path               string // directory for the badger database
	MinimumFreeSpaceGB int    // refuse to open below this free-space floor
	Logger             *logrus.Logger
}

type Store struct {
	config       StoreConfig
	badgerDB     *badger.DB
	log          *logrus.Logger
	readCounter  uint64
	writeCounter uint64
}

// New opens (creating if needed) the artifact database at config.Path.
func New(config StoreConfig) (*Store, error) {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	if err := config.check(); err != nil {
		return nil, fmt.Errorf("artifactStore: config: %w", err)
	}

	opts := badger.DefaultOptions(config.Path)
	opts.Logger = nil
	opts.ValueLogFileSize = 1024 * 1024 * 100
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("artifactStore: open badger: %w", err)
	}

	store := &Store{
		config:   config,
		badgerDB: db,
		log:      config.Logger,
	}
	store.logDiskUsage()

	return store, nil
}

func (sc *StoreConfig) check() error {
	if sc.Path == "" {
		return errors.New("no path provided")
	}

	if err := os.MkdirAll(sc.Path, 0o755); err != nil {
		return fmt.Errorf("create path: %w", err)
	}

	usage, err := disk.Usage(sc.Path)
	if err != nil {
		return fmt.Errorf("disk usage for %s: %w", sc.Path, err)
	}

	freeGB := usage.Free / (1024 * 1024 * 1024)
	if int(freeGB) < sc.MinimumFreeSpaceGB {
		return fmt.Errorf("not enough space available on disk: %d GB free, %d GB required", freeGB, sc.MinimumFreeSpaceGB)
	}

	return nil
}

func (s *Store) logDiskUsage() {
	usage, err := disk.Usage(s.config.Path)
	if err != nil {
		s.log.WithField("path", s.config.Path).Errorf("Error retrieving disk usage stats: %v", err)
		return
	}

	s.log.WithFields(logrus.Fields{
		"Path":       s.config.Path,
		"Total (GB)": fmt.Sprintf("%.2f", float64(usage.Total)/1e9),
		"Free (GB)":  fmt.Sprintf("%.2f", float64(usage.Free)/1e9),
		"Used (%)":   fmt.Sprintf("%.2f", usage.UsedPercent),
	}).Info("Artifact store disk usage")
}

func key(kind, name string) []byte {
	return []byte(kind + "/" + name)
}

// Save stores an artifact blob under kind/name, compressed.
func (s *Store) Save(kind, name string, blob []byte) error {
	atomic.AddUint64(&s.writeCounter, 1)

	compressed, err := compressWithLzma(blob)
	if err != nil {
		return fmt.Errorf("artifactStore: compress %s/%s: %w", kind, name, err)
	}

	err = s.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(key(kind, name), compressed)
	})
	if err != nil {
		return fmt.Errorf("artifactStore: write %s/%s: %w", kind, name, err)
	}

	s.log.WithFields(logrus.Fields{
		"kind":       kind,
		"name":       name,
		"rawSize":    len(blob),
		"storedSize": len(compressed),
	}).Debug("Artifact saved")

	return nil
}

// Load returns the decompressed artifact blob stored under kind/name.
func (s *Store) Load(kind, name string) ([]byte, error) {
	atomic.AddUint64(&s.readCounter, 1)

	var compressed []byte
	err := s.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(kind, name))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("artifactStore: read %s/%s: %w", kind, name, err)
	}

	blob, err := decompressWithLzma(compressed)
	if err != nil {
		return nil, fmt.Errorf("artifactStore: decompress %s/%s: %w", kind, name, err)
	}
	return blob, nil
}

// List returns the names of all artifacts of the given kind.
func (s *Store) List(kind string) ([]string, error) {
	prefix := key(kind, "")

	var names []string
	err := s.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("artifactStore: list %s: %w", kind, err)
	}
	return names, nil
}

// Stats reports operation counters since the store was opened.
func (s *Store) Stats() (reads, writes uint64) {
	return atomic.LoadUint64(&s.readCounter), atomic.LoadUint64(&s.writeCounter)
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.badgerDB.Close()
}
