package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is the backing row for one stored document
type Document struct {
	Path      string    `gorm:"primaryKey;size:500"`
	Data      []byte    `gorm:"type:json;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}

// AutoMigrate creates the documents table if it does not exist
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Document{})
}

// mysqlStore implements Store over a MySQL documents table
type mysqlStore struct {
	db *gorm.DB
}

// NewMySQLStore creates a Store backed by the given database
func NewMySQLStore(db *gorm.DB) Store {
	return &mysqlStore{db: db}
}

func (s *mysqlStore) Get(ctx context.Context, path string, out interface{}) error {
	var doc Document
	err := s.db.WithContext(ctx).First(&doc, "path = ?", path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(doc.Data, out)
}

func (s *mysqlStore) Set(ctx context.Context, path string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	row := Document{Path: path, Data: data}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *mysqlStore) Create(ctx context.Context, path string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	row := Document{Path: path, Data: data}
	err = s.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPathExists
		}
		return err
	}
	return nil
}

func (s *mysqlStore) Update(ctx context.Context, path string, partial map[string]interface{}) error {
	// Single-path read-modify-write inside a transaction with a row lock
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&doc, "path = ?", path).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var merged map[string]interface{}
		if err := json.Unmarshal(doc.Data, &merged); err != nil {
			return err
		}
		for k, v := range partial {
			merged[k] = v
		}

		data, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		return tx.Model(&Document{}).Where("path = ?", path).
			Update("data", data).Error
	})
}

// escapeLike escapes LIKE wildcards so a path prefix matches literally,
// whatever characters member ids carry
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func (s *mysqlStore) List(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	prefix := strings.TrimSuffix(path, "/") + "/"

	var docs []Document
	err := s.db.WithContext(ctx).
		Where("path LIKE ?", escapeLike(prefix)+"%").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	children := make(map[string]json.RawMessage)
	for _, doc := range docs {
		rest := strings.TrimPrefix(doc.Path, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue // grandchild, not an immediate child
		}
		children[rest] = json.RawMessage(doc.Data)
	}
	return children, nil
}

func (s *mysqlStore) ListAll(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	prefix := strings.TrimSuffix(path, "/") + "/"

	var docs []Document
	err := s.db.WithContext(ctx).
		Where("path LIKE ?", escapeLike(prefix)+"%").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	all := make(map[string]json.RawMessage, len(docs))
	for _, doc := range docs {
		all[strings.TrimPrefix(doc.Path, prefix)] = json.RawMessage(doc.Data)
	}
	return all, nil
}

func (s *mysqlStore) Delete(ctx context.Context, path string) error {
	return s.db.WithContext(ctx).Delete(&Document{}, "path = ?", path).Error
}
