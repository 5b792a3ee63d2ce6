package store

import (
	"context"
	"io"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/policy"
	"github.com/samanvaya/samanvaya/pkg/registry"
)

// MetadataStore defines the interface for database operations
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	Registry() *registry.Registry

	// Entity collections
	Languages() *Collection[models.Language, *models.Language]
	Users() *Collection[models.User, *models.User]
	TagInformation() *Collection[models.TagInformation, *models.TagInformation]
	Tags(category string) (*Collection[models.Tag, *models.Tag], error)
	Data(category string) (*Collection[models.Data, *models.Data], error)

	// User operations
	CreateUser(ctx context.Context, actor policy.Identity, in UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, actor policy.Identity, id uint, in UserInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (policy.Identity, error)

	// Comment operations
	SubmitComment(ctx context.Context, actor policy.Identity, comment *models.Comment) error
	ListComments(ctx context.Context, actor policy.Identity, filter CommentFilter) ([]models.Comment, error)

	// Change log operations
	ListChangeLog(ctx context.Context, actor policy.Identity, filter ChangeLogFilter) ([]models.ChangeLog, error)
	ExportChangeLog(ctx context.Context, actor policy.Identity, format ExportFormat, w io.Writer) error
}

var _ MetadataStore = (*SQLiteStore)(nil)
