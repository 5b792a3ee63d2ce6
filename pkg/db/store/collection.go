package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/samanvaya/samanvaya/pkg/metrics"
	"github.com/samanvaya/samanvaya/pkg/policy"
	"gorm.io/gorm"
)

// Row constrains P to be a pointer to T implementing models.Record.
type Row[T any] interface {
	*T
	models.Record
}

// Filter narrows a listing. Where is matched column by column; the
// soft-delete condition is always added on top.
type Filter struct {
	Where   map[string]any
	OrderBy string
}

// Collection is the soft-delete CRUD surface of one table. Reads never
// return flagged rows. Every mutation checks the caller's capability first,
// then writes the row and its change log entry in one transaction.
type Collection[T any, P Row[T]] struct {
	store *SQLiteStore
	table string
	class policy.Class
	order string

	// check runs inside the mutation transaction after validation.
	check func(tx *gorm.DB, rec P) error
	// carry copies values from the stored row onto an update before validation.
	carry func(old, rec P)
	// release runs inside the delete transaction once the row is flagged.
	// An error keeps the row live.
	release func(tx *gorm.DB, id uint) error
}

func newCollection[T any, P Row[T]](s *SQLiteStore, table string, class policy.Class, order string) *Collection[T, P] {
	return &Collection[T, P]{
		store: s,
		table: table,
		class: class,
		order: order,
	}
}

// Table returns the table the collection operates on.
func (c *Collection[T, P]) Table() string {
	return c.table
}

// Class returns the policy class guarding mutations.
func (c *Collection[T, P]) Class() policy.Class {
	return c.class
}

func (c *Collection[T, P]) live(tx *gorm.DB) *gorm.DB {
	return tx.Table(c.table).Where("is_deleted = ?", false)
}

// List returns every live row matching filter.
func (c *Collection[T, P]) List(ctx context.Context, filter Filter) ([]T, error) {
	query := c.live(c.store.db.WithContext(ctx))
	if len(filter.Where) > 0 {
		query = query.Where(filter.Where)
	}

	order := filter.OrderBy
	if order == "" {
		order = c.order
	}

	rows := []T{}
	if err := query.Order(order).Find(&rows).Error; err != nil {
		return nil, c.store.fail("list "+c.table, err)
	}
	return rows, nil
}

// GetByIDs returns the live rows among ids. Only the first max ids are
// considered; the rest are dropped without error. A max of zero or less
// disables the bound.
func (c *Collection[T, P]) GetByIDs(ctx context.Context, ids []uint, max int) ([]T, error) {
	if max > 0 && len(ids) > max {
		ids = ids[:max]
	}
	if len(ids) == 0 {
		return []T{}, nil
	}

	rows := []T{}
	if err := c.live(c.store.db.WithContext(ctx)).Where("id IN ?", ids).Order(c.order).Find(&rows).Error; err != nil {
		return nil, c.store.fail("get "+c.table, err)
	}
	return rows, nil
}

// Get returns the live row with id, or errs.ErrNotFound.
func (c *Collection[T, P]) Get(ctx context.Context, id uint) (P, error) {
	return c.take(c.live(c.store.db.WithContext(ctx)), id)
}

// GetIncludingDeleted fetches the row with id regardless of its soft-delete
// flag. It exists for audit tooling.
func (c *Collection[T, P]) GetIncludingDeleted(ctx context.Context, id uint) (P, error) {
	return c.take(c.store.db.WithContext(ctx).Table(c.table), id)
}

// Count returns the number of live rows matching where.
func (c *Collection[T, P]) Count(ctx context.Context, where map[string]any) (int64, error) {
	query := c.live(c.store.db.WithContext(ctx))
	if len(where) > 0 {
		query = query.Where(where)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, c.store.fail("count "+c.table, err)
	}
	return count, nil
}

// Exists reports whether any row matching where is physically present,
// soft-deleted or not.
func (c *Collection[T, P]) Exists(ctx context.Context, where map[string]any) (bool, error) {
	query := c.store.db.WithContext(ctx).Table(c.table)
	if len(where) > 0 {
		query = query.Where(where)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, c.store.fail("count "+c.table, err)
	}
	return count > 0, nil
}

func (c *Collection[T, P]) take(query *gorm.DB, id uint) (P, error) {
	var row T
	rec := P(&row)
	if err := query.Where("id = ?", id).Take(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %d", errs.ErrNotFound, c.table, id)
		}
		return nil, c.store.fail("get "+c.table, err)
	}
	return rec, nil
}

// Create inserts rec as a new live row and records its initial values.
// Identity and the soft-delete flag supplied by the caller are ignored.
func (c *Collection[T, P]) Create(ctx context.Context, actor policy.Identity, rec P) (P, error) {
	err := c.mutate(ctx, actor, policy.Create, func(tx *gorm.DB) (map[string]any, error) {
		rec.SetPrimaryKey(0)
		rec.SetDeleted(false)

		if err := c.store.validateStruct(rec); err != nil {
			return nil, err
		}
		if err := c.runCheck(tx, rec); err != nil {
			return nil, err
		}
		if err := tx.Table(c.table).Create(rec).Error; err != nil {
			return nil, err
		}
		return redact(rec, rec.Columns()), nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update replaces every field of the live row id with the values of rec.
// Only changed fields are recorded, as old/new pairs.
func (c *Collection[T, P]) Update(ctx context.Context, actor policy.Identity, id uint, rec P) (P, error) {
	err := c.mutate(ctx, actor, policy.Edit, func(tx *gorm.DB) (map[string]any, error) {
		old, err := c.take(c.live(tx), id)
		if err != nil {
			return nil, err
		}

		rec.SetPrimaryKey(id)
		rec.SetDeleted(false)
		if c.carry != nil {
			c.carry(old, rec)
		}

		if err := c.store.validateStruct(rec); err != nil {
			return nil, err
		}
		if err := c.runCheck(tx, rec); err != nil {
			return nil, err
		}
		if err := tx.Table(c.table).Save(rec).Error; err != nil {
			return nil, err
		}

		detail := diff(rec, old.Columns(), rec.Columns())
		detail["id"] = id
		return detail, nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete flags the live row id as deleted. Deleting a row twice fails the
// second time with errs.ErrNotFound. A row still referenced by live rows
// elsewhere cannot be deleted.
func (c *Collection[T, P]) Delete(ctx context.Context, actor policy.Identity, id uint) error {
	return c.mutate(ctx, actor, policy.Delete, func(tx *gorm.DB) (map[string]any, error) {
		result := c.live(tx).Where("id = ?", id).Update("is_deleted", true)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: %s %d", errs.ErrNotFound, c.table, id)
		}
		if c.release != nil {
			if err := c.release(tx, id); err != nil {
				return nil, err
			}
		}
		return map[string]any{"id": id}, nil
	})
}

func (c *Collection[T, P]) runCheck(tx *gorm.DB, rec P) error {
	if c.check == nil {
		return nil
	}
	return c.check(tx, rec)
}

// mutate authorizes the caller before touching any row, then runs fn and
// the change log insert in a single transaction.
func (c *Collection[T, P]) mutate(ctx context.Context, actor policy.Identity, action policy.Action, fn func(tx *gorm.DB) (map[string]any, error)) (err error) {
	changeAction := changeActions[action]
	defer func() {
		metrics.ObserveMutation(c.table, string(changeAction), err)
	}()

	if err := policy.Authorize(actor, c.class, action); err != nil {
		return err
	}

	return c.store.transaction(ctx, string(changeAction)+" "+c.table, func(tx *gorm.DB) error {
		detail, err := fn(tx)
		if err != nil {
			return err
		}
		return c.store.appendChangeLog(tx, actor, c.table, changeAction, detail)
	})
}

var changeActions = map[policy.Action]models.ChangeAction{
	policy.Create: models.ActionCreate,
	policy.Edit:   models.ActionEdit,
	policy.Delete: models.ActionDelete,
}

func (s *SQLiteStore) appendChangeLog(tx *gorm.DB, actor policy.Identity, table string, action models.ChangeAction, detail map[string]any) error {
	encoded, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to encode change detail: %w", err)
	}

	entry := models.ChangeLog{
		UserID:    actor.UserID,
		Tablename: table,
		Action:    action,
		Detail:    string(encoded),
		Timestamp: s.now(),
	}
	return tx.Create(&entry).Error
}

// redact replaces sensitive column values with a changed marker.
func redact(rec models.Record, cols map[string]any) map[string]any {
	sensitive, ok := rec.(models.Sensitive)
	if !ok {
		return cols
	}
	for _, column := range sensitive.SensitiveColumns() {
		if _, exists := cols[column]; exists {
			cols[column] = true
		}
	}
	return cols
}

// Change is one edited field in a change log detail.
type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

func diff(rec models.Record, before, after map[string]any) map[string]any {
	var sensitive []string
	if s, ok := rec.(models.Sensitive); ok {
		sensitive = s.SensitiveColumns()
	}

	changes := make(map[string]any)
	for column, newValue := range after {
		oldValue := before[column]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		changes[column] = changeFor(column, sensitive, oldValue, newValue)
	}
	for column, oldValue := range before {
		if _, exists := after[column]; exists {
			continue
		}
		changes[column] = changeFor(column, sensitive, oldValue, nil)
	}
	return changes
}

func changeFor(column string, sensitive []string, oldValue, newValue any) any {
	for _, s := range sensitive {
		if s == column {
			return true
		}
	}
	return Change{Old: oldValue, New: newValue}
}
