// Package storage archives finished games in BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/benbeisheim/chess-engine/internal/model"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
)

const keyGamePrefix = "game:"

// ErrGameNotFound is returned when no archived game has the requested id.
var ErrGameNotFound = errors.New("archived game not found")

// GameRecord is a finished game as stored in the archive.
type GameRecord struct {
	ID         string             `json:"id"`
	StartedAt  time.Time          `json:"startedAt"`
	FinishedAt time.Time          `json:"finishedAt"`
	Result     model.Result       `json:"result"`
	Winner     *model.Color       `json:"winner"`
	Moves      []model.MoveRecord `json:"moves"`
}

// Archive wraps BadgerDB for persistent storage of game records
type Archive struct {
	db *badger.DB
}

// Open opens (or creates) the archive in dir.
func Open(dir string, log logr.Logger) (*Archive, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log: log.WithName("badger")})
	return open(opts)
}

// OpenInMemory opens an archive that lives only as long as the process.
func OpenInMemory() (*Archive, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return open(opts)
}

func open(opts badger.Options) (*Archive, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the database
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SaveGame stores rec under its id, replacing any earlier record.
func (a *Archive) SaveGame(rec GameRecord) error {
	if rec.ID == "" {
		return errors.New("archive: game record without id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyGamePrefix+rec.ID), data)
	})
}

func (a *Archive) LoadGame(id string) (*GameRecord, error) {
	rec := &GameRecord{}
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyGamePrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListGames returns every archived game, most recently finished first.
func (a *Archive) ListGames() ([]GameRecord, error) {
	records := []GameRecord{}
	prefix := []byte(keyGamePrefix)
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].FinishedAt.After(records[j].FinishedAt)
	})
	return records, nil
}

// badgerLogger routes badger's printf-style logging into logr.
type badgerLogger struct {
	log logr.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(nil, fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.V(1).Info(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.V(2).Info(fmt.Sprintf(format, args...))
}
