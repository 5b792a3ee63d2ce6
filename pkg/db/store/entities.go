package store

import (
	"fmt"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/samanvaya/samanvaya/pkg/policy"
	"gorm.io/gorm"
)

const (
	orderByID   = "id ASC"
	orderByCode = "code ASC, id ASC"
)

// Languages returns the language collection. Codes are unique, and a
// language with live examples in any category cannot be deleted.
func (s *SQLiteStore) Languages() *Collection[models.Language, *models.Language] {
	c := newCollection[models.Language](s, models.Language{}.TableName(), policy.ClassLanguage, orderByCode)
	c.check = func(tx *gorm.DB, rec *models.Language) error {
		return unique(tx, c.table, "code", rec.Code, rec.ID)
	}
	c.release = func(tx *gorm.DB, id uint) error {
		for _, cat := range s.registry.Categories() {
			if err := unreferenced(tx, cat.DataTable, "language_id", id); err != nil {
				return err
			}
		}
		return nil
	}
	return c
}

// Users returns the user collection. An update carrying an empty password
// keeps the stored hash.
func (s *SQLiteStore) Users() *Collection[models.User, *models.User] {
	c := newCollection[models.User](s, models.User{}.TableName(), policy.ClassUser, orderByID)
	c.check = func(tx *gorm.DB, rec *models.User) error {
		return unique(tx, c.table, "username", rec.Username, rec.ID)
	}
	c.carry = func(old, rec *models.User) {
		if rec.Password == "" {
			rec.Password = old.Password
		}
	}
	return c
}

// TagInformation returns the collection advertising categories. Each row
// must name a registered category, at most once.
func (s *SQLiteStore) TagInformation() *Collection[models.TagInformation, *models.TagInformation] {
	c := newCollection[models.TagInformation](s, models.TagInformation{}.TableName(), policy.ClassTagInformation, orderByID)
	c.check = func(tx *gorm.DB, rec *models.TagInformation) error {
		if !s.registry.Has(rec.Tablename) {
			return errs.Invalid("tablename", "'%s' is not a registered category", rec.Tablename)
		}
		return unique(tx, c.table, "tablename", rec.Tablename, rec.ID)
	}
	return c
}

// Tags returns the tag collection of category. Extension attributes are
// checked against the registry; a tag with live data rows cannot be deleted.
func (s *SQLiteStore) Tags(category string) (*Collection[models.Tag, *models.Tag], error) {
	cat, err := s.registry.Resolve(category)
	if err != nil {
		return nil, err
	}

	c := newCollection[models.Tag](s, cat.TagTable(), policy.ClassTag, orderByCode)
	c.check = func(tx *gorm.DB, rec *models.Tag) error {
		return cat.ValidateTagExtra(rec.Extra)
	}
	c.release = func(tx *gorm.DB, id uint) error {
		return unreferenced(tx, cat.DataTable, "tag_id", id)
	}
	return c, nil
}

// Data returns the data collection of category. Every row must reference a
// live tag of the same category and a live language.
func (s *SQLiteStore) Data(category string) (*Collection[models.Data, *models.Data], error) {
	cat, err := s.registry.Resolve(category)
	if err != nil {
		return nil, err
	}

	c := newCollection[models.Data](s, cat.DataTable, policy.ClassData, orderByID)
	c.check = func(tx *gorm.DB, rec *models.Data) error {
		if err := cat.ValidateDataExtra(rec.Extra); err != nil {
			return err
		}
		if err := references(tx, cat.TagTable(), "tag_id", rec.TagID); err != nil {
			return err
		}
		return references(tx, models.Language{}.TableName(), "language_id", rec.LanguageID)
	}
	return c, nil
}

// unique fails when another row of table already holds value in column.
// Soft-deleted rows count, since the unique indexes cover them too.
func unique(tx *gorm.DB, table, column, value string, id uint) error {
	var count int64
	err := tx.Table(table).
		Where(fmt.Sprintf("%s = ? AND id <> ?", column), value, id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.Invalid(column, "'%s' is already taken", value)
	}
	return nil
}

// references fails unless id names a live row of table.
func references(tx *gorm.DB, table, field string, id uint) error {
	var count int64
	err := tx.Table(table).
		Where("id = ? AND is_deleted = ?", id, false).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.Invalid(field, "no live %s row with id %d", table, id)
	}
	return nil
}

// unreferenced fails while live rows of table still point at id through column.
func unreferenced(tx *gorm.DB, table, column string, id uint) error {
	var count int64
	err := tx.Table(table).
		Where(fmt.Sprintf("%s = ? AND is_deleted = ?", column), id, false).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.Invalid("id", "still referenced by %d live %s rows", count, table)
	}
	return nil
}
