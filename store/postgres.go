package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// tsKey marks an encoded timestamp inside a jsonb document. The layout is
// fixed width so jsonb comparison orders timestamps chronologically.
const (
	tsKey    = "$ts"
	tsLayout = "2006-01-02T15:04:05.000000000Z"
)

// document is one row of the documents table. Every collection, nested or
// not, shares the table and is keyed by its slash path.
type document struct {
	Collection string         `gorm:"primaryKey;size:512"`
	ID         string         `gorm:"primaryKey;size:128"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null;index:idx_documents_data,type:gin"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (document) TableName() string { return "documents" }

// PostgresStore keeps documents as jsonb rows through gorm.
type PostgresStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostgresStore opens the database and migrates the documents table.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, err
	}
	return NewPostgresStoreFromDB(db), nil
}

// NewPostgresStoreFromDB wraps an already opened connection. No migration is
// run.
func NewPostgresStoreFromDB(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Add(ctx context.Context, c Collection, data Fields) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, c.Doc(id), data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) Set(ctx context.Context, d DocRef, data Fields) error {
	now := s.now().UTC()
	raw, err := encodeJSON(resolve(data, now))
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Exec(
		`INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES (?, ?, ?::jsonb, ?, ?) `+
			`ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		d.Collection.Path(), d.ID, string(raw), now, now,
	).Error
}

func (s *PostgresStore) Update(ctx context.Context, d DocRef, data Fields) error {
	now := s.now().UTC()
	raw, err := encodeJSON(resolve(data, now))
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Exec(
		`UPDATE documents SET data = data || ?::jsonb, updated_at = ? WHERE collection = ? AND id = ?`,
		string(raw), now, d.Collection.Path(), d.ID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, d DocRef) (*Snapshot, error) {
	var rows []document
	err := s.db.WithContext(ctx).
		Raw(`SELECT id, data FROM documents WHERE collection = ? AND id = ?`, d.Collection.Path(), d.ID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	data, err := decodeJSON(rows[0].Data)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Ref: d, Data: data}, nil
}

func (s *PostgresStore) Delete(ctx context.Context, d DocRef) error {
	return s.db.WithContext(ctx).Exec(
		`DELETE FROM documents WHERE collection = ? AND id = ?`, d.Collection.Path(), d.ID,
	).Error
}

func (s *PostgresStore) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	tx, err := s.buildQuery(s.db.WithContext(ctx), q)
	if err != nil {
		return nil, err
	}
	var rows []document
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*Snapshot, 0, len(rows))
	for _, r := range rows {
		data, err := decodeJSON(r.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, &Snapshot{Ref: q.Collection.Doc(r.ID), Data: data})
	}
	return out, nil
}

func (s *PostgresStore) buildQuery(db *gorm.DB, q Query) (*gorm.DB, error) {
	tx := db.Table("documents").Select("id, data").Where("collection = ?", q.Collection.Path())
	for _, f := range q.Filters {
		v, err := json.Marshal(encodeValue(f.Value))
		if err != nil {
			return nil, err
		}
		switch f.Op {
		case OpEqual:
			probe, err := json.Marshal(map[string]any{f.Field: encodeValue(f.Value)})
			if err != nil {
				return nil, err
			}
			tx = tx.Where("data @> ?::jsonb", string(probe))
		case OpGreaterEqual:
			tx = tx.Where("jsonb_typeof(data -> ?) = jsonb_typeof(?::jsonb) AND data -> ? >= ?::jsonb",
				f.Field, string(v), f.Field, string(v))
		case OpLessEqual:
			tx = tx.Where("jsonb_typeof(data -> ?) = jsonb_typeof(?::jsonb) AND data -> ? <= ?::jsonb",
				f.Field, string(v), f.Field, string(v))
		}
	}
	order := ""
	vars := make([]any, 0, len(q.Orders))
	for _, o := range q.Orders {
		tx = tx.Where("jsonb_exists(data, ?)", o.Field)
		dir := "ASC"
		if o.Direction == Desc {
			dir = "DESC"
		}
		order += "data -> ? " + dir + ", "
		vars = append(vars, o.Field)
	}
	order += "id ASC"
	tx = tx.Clauses(clause.OrderBy{Expression: clause.Expr{SQL: order, Vars: vars, WithoutParentheses: true}})
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func encodeValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return map[string]any{tsKey: t.UTC().Format(tsLayout)}
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = encodeValue(vv)
		}
		return m
	case Fields:
		return encodeValue(map[string]any(t))
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = encodeValue(vv)
		}
		return s
	}
	return v
}

func decodeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if raw, ok := t[tsKey].(string); ok && len(t) == 1 {
			if ts, err := time.Parse(tsLayout, raw); err == nil {
				return ts
			}
		}
		for k, vv := range t {
			t[k] = decodeValue(vv)
		}
		return t
	case []any:
		for i, vv := range t {
			t[i] = decodeValue(vv)
		}
		return t
	}
	return v
}

func encodeJSON(data Fields) ([]byte, error) {
	return json.Marshal(encodeValue(map[string]any(data)))
}

func decodeJSON(raw []byte) (Fields, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return decodeValue(m).(map[string]any), nil
}
