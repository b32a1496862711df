// Package sqlite implements storage.Store on a SQLite table through xorm.
package sqlite

import (
	"context"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"xorm.io/xorm"
	"xorm.io/xorm/log"
	"xorm.io/xorm/names"
)

// Blob is one stored key.
type Blob struct {
	Name      string `xorm:"pk"`
	Data      []byte `xorm:"blob"`
	UpdatedAt time.Time
}

// Store keeps keys as rows of the blob table.
type Store struct {
	engine *xorm.Engine
	now    func() time.Time
}

// Open returns a store for the sqlite file at path, creating the file and
// the table when missing.
func Open(path string) (*Store, error) {
	engine, err := xorm.NewEngine("sqlite3", path)
	if err != nil {
		return nil, err
	}
	engine.Logger().SetLevel(log.LOG_WARNING)
	engine.SetMapper(names.GonicMapper{})

	if err := engine.Sync2(new(Blob)); err != nil {
		_ = engine.Close()
		return nil, err
	}
	return &Store{engine: engine, now: time.Now}, nil
}

// Close the database.
func (s *Store) Close() error {
	return s.engine.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	row := &Blob{Name: key}
	has, err := s.engine.Context(ctx).Get(row)
	if err != nil {
		return nil, false, err
	}
	if !has {
		return nil, false, nil
	}
	if row.Data == nil {
		row.Data = []byte{}
	}
	return row.Data, true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	session := s.engine.NewSession().Context(ctx)
	defer session.Close()

	if err := session.Begin(); err != nil {
		return err
	}
	row := &Blob{Name: key, Data: value, UpdatedAt: s.now().UTC()}
	has, err := session.Exist(&Blob{Name: key})
	if err != nil {
		_ = session.Rollback()
		return err
	}
	if has {
		_, err = session.ID(key).Cols("data", "updated_at").Update(row)
	} else {
		_, err = session.Insert(row)
	}
	if err != nil {
		_ = session.Rollback()
		return err
	}
	return session.Commit()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.engine.Context(ctx).ID(key).Delete(new(Blob))
	return err
}
