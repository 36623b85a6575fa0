package database

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "github.com/causeway-org/causeway/internal/logger"
)

// Page is one page of a paginated listing. Pages are 1-based.
type Page[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

// DefaultPerPage is used when a caller asks for a non-positive page size.
const DefaultPerPage = 15

// Model is the generic record gateway every repository embeds. It provides
// CRUD, pagination, search, counting and existence checks over one entity
// table, restricted to the repository's fillable columns on writes.
//
// Non-fillable fields set on a record passed to Create are silently dropped,
// as are unknown keys in an Update column map; both are deliberate guards
// against mass assignment.
type Model[T any] struct {
	db         *gorm.DB
	log        *applog.Logger
	fillable   []string
	timestamps bool
}

// NewModel builds a gateway for T writing only the fillable columns.
// When timestamps is true, created_at/updated_at are maintained on writes.
func NewModel[T any](db *Database, fillable []string, timestamps bool) *Model[T] {
	return &Model[T]{
		db:         db.DB,
		log:        db.log,
		fillable:   slices.Clone(fillable),
		timestamps: timestamps,
	}
}

// Fillable reports whether column is in the write allowlist.
func (m *Model[T]) Fillable(column string) bool {
	return slices.Contains(m.fillable, column)
}

// Find returns the record with the given primary key, or ErrNotFound.
func (m *Model[T]) Find(id uint) (*T, error) {
	var record T
	err := m.db.First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, m.storageErr("find", err)
	}
	return &record, nil
}

// All returns every record, optionally ordered.
func (m *Model[T]) All(orders ...Order) ([]T, error) {
	var records []T
	if err := applyOrders(m.db, orders).Find(&records).Error; err != nil {
		return nil, m.storageErr("all", err)
	}
	return records, nil
}

// Create persists record, writing only the fillable columns (plus
// timestamps when enabled). The generated primary key is backfilled onto
// record by GORM.
func (m *Model[T]) Create(record *T) error {
	if err := m.db.Select(m.writeColumns()).Create(record).Error; err != nil {
		return m.storageErr("create", err)
	}
	return nil
}

// Update applies the column map to the record with the given id, dropping
// any key outside the fillable allowlist. An update that is empty after
// filtering is a successful no-op.
func (m *Model[T]) Update(id uint, data map[string]any) error {
	filtered := make(map[string]any, len(data))
	for column, value := range data {
		if m.Fillable(column) {
			filtered[column] = value
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if m.timestamps {
		filtered["updated_at"] = time.Now()
	}

	var record T
	if err := m.db.Model(&record).Where("id = ?", id).Updates(filtered).Error; err != nil {
		return m.storageErr("update", err)
	}
	return nil
}

// Delete physically removes the record with the given primary key.
func (m *Model[T]) Delete(id uint) error {
	var record T
	if err := m.db.Delete(&record, id).Error; err != nil {
		return m.storageErr("delete", err)
	}
	return nil
}

// FindBy returns every record where field equals value.
func (m *Model[T]) FindBy(field string, value any) ([]T, error) {
	var records []T
	if err := m.db.Where(fmt.Sprintf("%s = ?", field), value).Find(&records).Error; err != nil {
		return nil, m.storageErr("find_by", err)
	}
	return records, nil
}

// FindOneBy returns the first record where field equals value, or ErrNotFound.
func (m *Model[T]) FindOneBy(field string, value any) (*T, error) {
	var record T
	err := m.db.Where(fmt.Sprintf("%s = ?", field), value).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, m.storageErr("find_one_by", err)
	}
	return &record, nil
}

// Paginate returns the 1-based page of records matching conds.
// LastPage is ceil(total/perPage); perPage has no upper bound.
func (m *Model[T]) Paginate(page, perPage int, conds []Condition, orders ...Order) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	var record T
	query := applyConditions(m.db.Model(&record), conds)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, m.storageErr("paginate", err)
	}

	var records []T
	query = applyConditions(m.db, conds)
	query = applyOrders(query, orders)
	err := query.Limit(perPage).Offset((page - 1) * perPage).Find(&records).Error
	if err != nil {
		return nil, m.storageErr("paginate", err)
	}

	return &Page[T]{
		Data:        records,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    int(math.Ceil(float64(total) / float64(perPage))),
	}, nil
}

// Search pages through records where any of fields contains term,
// case-insensitively.
func (m *Model[T]) Search(fields []string, term string, page, perPage int) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	pattern := "%" + strings.ToLower(term) + "%"
	for i, field := range fields {
		clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ?", field)
		args[i] = pattern
	}
	where := strings.Join(clauses, " OR ")

	var record T
	var total int64
	if err := m.db.Model(&record).Where(where, args...).Count(&total).Error; err != nil {
		return nil, m.storageErr("search", err)
	}

	var records []T
	err := m.db.Where(where, args...).Limit(perPage).Offset((page - 1) * perPage).Find(&records).Error
	if err != nil {
		return nil, m.storageErr("search", err)
	}

	return &Page[T]{
		Data:        records,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    int(math.Ceil(float64(total) / float64(perPage))),
	}, nil
}

// Count returns how many records match conds.
func (m *Model[T]) Count(conds ...Condition) (int64, error) {
	var record T
	var total int64
	if err := applyConditions(m.db.Model(&record), conds).Count(&total).Error; err != nil {
		return 0, m.storageErr("count", err)
	}
	return total, nil
}

// Exists reports whether at least one record matches conds.
func (m *Model[T]) Exists(conds ...Condition) (bool, error) {
	total, err := m.Count(conds...)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// DB exposes the underlying handle for repository-specific queries.
func (m *Model[T]) DB() *gorm.DB {
	return m.db
}

func (m *Model[T]) writeColumns() []string {
	if !m.timestamps {
		return m.fillable
	}
	return append(slices.Clone(m.fillable), "created_at", "updated_at")
}

// StorageErr lets repositories apply the same failure policy as the
// generic methods for their own queries.
func (m *Model[T]) StorageErr(op string, err error) error {
	return m.storageErr(op, err)
}

// storageErr logs the raw driver error and returns the sanitized ErrStorage;
// callers never see SQL detail.
func (m *Model[T]) storageErr(op string, err error) error {
	var record T
	m.log.Error("database {op} failed for {entity}", map[string]any{
		"op":     op,
		"entity": fmt.Sprintf("%T", record),
		"error":  err.Error(),
	})
	return fmt.Errorf("%s: %w", op, ErrStorage)
}
