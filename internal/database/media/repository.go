// Package media indexes uploaded files.
package media

import (
	"errors"
	"strings"

	"github.com/causeway-org/causeway/internal/database"
	"github.com/causeway-org/causeway/internal/entities"
)

var (
	ErrPathRequired = errors.New("media file path is required")
	ErrPathTaken    = errors.New("a media entry with this path already exists")
)

var fillable = []string{
	"file_name", "file_path", "mime_type", "size", "alt_text", "uploaded_by",
}

type Repository struct {
	*database.Model[entities.Media]
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{Model: database.NewModel[entities.Media](db, fillable, true)}
}

type NewMedia struct {
	FileName   string
	FilePath   string
	MimeType   string
	Size       int64
	AltText    string
	UploadedBy uint
}

func (r *Repository) CreateMedia(in NewMedia) (*entities.Media, error) {
	if in.FilePath == "" {
		return nil, ErrPathRequired
	}
	taken, err := r.Exists(database.Eq("file_path", in.FilePath))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrPathTaken
	}

	media := entities.Media{
		FileName:   in.FileName,
		FilePath:   in.FilePath,
		MimeType:   in.MimeType,
		Size:       in.Size,
		AltText:    in.AltText,
		UploadedBy: in.UploadedBy,
	}
	if err := r.Create(&media); err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *Repository) ByPath(path string) (*entities.Media, error) {
	return r.FindOneBy("file_path", path)
}

// Recent pages through the library, newest first.
func (r *Repository) Recent(page, perPage int) (*database.Page[entities.Media], error) {
	return r.Paginate(page, perPage, nil, database.Desc("created_at"))
}

// ByUploader pages through one user's uploads, newest first.
func (r *Repository) ByUploader(userID uint, page, perPage int) (*database.Page[entities.Media], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{database.Eq("uploaded_by", userID)},
		database.Desc("created_at"))
}

// Images pages through entries whose MIME type is image/*.
func (r *Repository) Images(page, perPage int) (*database.Page[entities.Media], error) {
	return r.Paginate(page, perPage,
		[]database.Condition{database.Like("mime_type", "image/%")},
		database.Desc("created_at"))
}

// IsImage reports whether an entry can be rendered inline.
func IsImage(m *entities.Media) bool {
	return strings.HasPrefix(m.MimeType, "image/")
}
