// Package store keeps the history of exploration reports in a badger database.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"

	"emgcheck/internal/report"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var ErrNotFound = errors.New("no report stored")

type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "badger.Open %s", path)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a database that lives only as long as the Store.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrap(err, "badger.Open")
	}
	return &Store{db: db}, nil
}

func prefix(scenario string) string {
	return fmt.Sprintf("report/%s/", scenario)
}

// key orders reports of one scenario by start time.
func key(r *report.Report) []byte {
	return []byte(fmt.Sprintf("%s%020d/%016x", prefix(r.Scenario), r.Started.UnixNano(), r.Config))
}

func (s *Store) Put(r *report.Report) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return errors.Wrap(err, "Encode")
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(r), buf.Bytes())
	})
	if err != nil {
		return errors.Wrapf(err, "Update %s", r.Scenario)
	}
	log.Debugf("stored report %s", key(r))
	return nil
}

// History returns the stored reports of scenario, oldest first.
func (s *Store) History(scenario string) ([]*report.Report, error) {
	result := make([]*report.Report, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		p := []byte(prefix(scenario))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var r report.Report
				if err := gob.NewDecoder(bytes.NewReader(val)).Decode(&r); err != nil {
					return err
				}
				result = append(result, &r)
				return nil
			})
			if err != nil {
				return errors.Wrapf(err, "Decode %s", it.Item().Key())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Latest returns the most recent report of scenario.
func (s *Store) Latest(scenario string) (*report.Report, error) {
	history, err := s.History(scenario)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, errors.Wrap(ErrNotFound, scenario)
	}
	return history[len(history)-1], nil
}

// Scenarios lists every scenario with at least one stored report.
func (s *Store) Scenarios() ([]string, error) {
	seen := make(map[string]bool)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		p := []byte("report/")
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			k := bytes.TrimPrefix(it.Item().Key(), p)
			if i := bytes.IndexByte(k, '/'); i > 0 {
				seen[string(k[:i])] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	sort.Strings(result)
	return result, nil
}

// PutAll stores every report and returns all failures together.
func (s *Store) PutAll(reports []*report.Report) error {
	var err error
	for _, r := range reports {
		err = multierr.Append(err, s.Put(r))
	}
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
