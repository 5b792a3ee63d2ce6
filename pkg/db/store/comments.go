package store

import (
	"context"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/samanvaya/samanvaya/pkg/metrics"
	"github.com/samanvaya/samanvaya/pkg/policy"
)

// coreTables are the non-category tables a comment may refer to.
var coreTables = map[string]bool{
	models.Language{}.TableName():       true,
	models.User{}.TableName():           true,
	models.TagInformation{}.TableName(): true,
}

// CommentFilter narrows ListComments. Empty fields match everything.
type CommentFilter struct {
	Tablename string
	Action    models.CommentAction
}

// SubmitComment stores a suggestion from actor. Comments are append-only
// and are not recorded in the change log.
func (s *SQLiteStore) SubmitComment(ctx context.Context, actor policy.Identity, comment *models.Comment) (err error) {
	defer func() {
		metrics.ObserveMutation(models.Comment{}.TableName(), string(models.ActionCreate), err)
	}()

	if err := policy.Authorize(actor, policy.ClassComment, policy.Create); err != nil {
		return err
	}
	if err := s.validateStruct(comment); err != nil {
		return err
	}
	if _, ok := s.registry.ByTable(comment.Tablename); !ok && !coreTables[comment.Tablename] {
		return errs.Invalid("tablename", "'%s' is not a known table", comment.Tablename)
	}

	comment.ID = 0
	comment.UserID = actor.UserID
	comment.Timestamp = s.now()

	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return s.fail("submit comment", err)
	}
	return nil
}

// ListComments returns matching comments, newest first.
func (s *SQLiteStore) ListComments(ctx context.Context, actor policy.Identity, filter CommentFilter) ([]models.Comment, error) {
	if err := policy.Authorize(actor, policy.ClassComment, policy.Read); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Comment{})
	if filter.Tablename != "" {
		query = query.Where("tablename = ?", filter.Tablename)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	comments := []models.Comment{}
	if err := query.Order("id DESC").Find(&comments).Error; err != nil {
		return nil, s.fail("list comments", err)
	}
	return comments, nil
}
