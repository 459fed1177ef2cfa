package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"filesight/internal/model"
)

var (
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrFileTooLarge    = errors.New("file too large, maximum size is 10MB")
	ErrEmptyFile       = errors.New("file is empty")
	ErrUploadFailed    = errors.New("upload failed")
	ErrUploadNotFound  = errors.New("upload not found")
)

const maxUploadSize = 10 * 1024 * 1024

var allowedMimeTypes = map[string]bool{
	"text/plain":       true,
	"text/csv":         true,
	"text/markdown":    true,
	"application/json": true,
	"image/jpeg":       true,
	"image/png":        true,
	"image/gif":        true,
	"image/webp":       true,
}

type UploadStore interface {
	Create(upload *model.Upload) error
	ListByUserID(userID uint) ([]model.Upload, error)
	GetByIDAndUserID(id, userID uint) (*model.Upload, error)
	DeleteByIDAndUserID(id, userID uint) error
}

type InsightStore interface {
	ListByUploadID(uploadID uint) ([]model.Insight, error)
	CountByUploadIDs(uploadIDs []uint) (map[uint]int64, error)
	CreateIfAbsent(insight *model.Insight) ([]model.Insight, bool, error)
	DeleteByUploadID(uploadID uint) error
}

type ObjectStore interface {
	Put(ctx context.Context, ownerID uint, filename, contentType string, data []byte) (key, url string, err error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
}

type UploadService struct {
	uploads  UploadStore
	insights InsightStore
	objects  ObjectStore
	events   EventPublisher
}

type StoreUploadInput struct {
	OwnerID  uint
	Filename string
	MimeType string
	Size     int64
	Data     []byte
}

// UploadListItem annotates an upload with whether analysis has happened,
// without carrying the insight bodies.
type UploadListItem struct {
	model.Upload
	HasInsights bool `json:"hasInsights"`
}

type UploadDetail struct {
	model.Upload
	Insights []model.Insight `json:"insights"`
}

func NewUploadService(uploads UploadStore, insights InsightStore, objects ObjectStore, events EventPublisher) *UploadService {
	return &UploadService{
		uploads:  uploads,
		insights: insights,
		objects:  objects,
		events:   events,
	}
}

// Store validates the file, writes it to the object store, then records the
// metadata row. Validation happens before any write; a failed metadata insert
// removes the stored object so the two stores never disagree.
func (s *UploadService) Store(ctx context.Context, input StoreUploadInput) (*model.Upload, error) {
	if input.OwnerID == 0 || input.Filename == "" {
		return nil, ErrInvalidInput
	}
	if !allowedMimeTypes[input.MimeType] {
		return nil, ErrUnsupportedType
	}
	if input.Size > maxUploadSize {
		return nil, ErrFileTooLarge
	}
	if input.Size <= 0 || len(input.Data) == 0 {
		return nil, ErrEmptyFile
	}

	key, url, err := s.objects.Put(ctx, input.OwnerID, input.Filename, input.MimeType, input.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	upload := &model.Upload{
		UserID:    input.OwnerID,
		Filename:  input.Filename,
		FileType:  input.MimeType,
		FileSize:  input.Size,
		FileURL:   url,
		ObjectKey: key,
	}
	if err := s.uploads.Create(upload); err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			log.Printf("cleanup orphan object %s failed: %v", key, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.publishEvent(ctx, input.OwnerID, upload.ID, model.ActionUploadCreated, upload.Filename)
	return upload, nil
}

func (s *UploadService) List(userID uint) ([]UploadListItem, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	uploads, err := s.uploads.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(uploads))
	for _, u := range uploads {
		ids = append(ids, u.ID)
	}
	counts, err := s.insights.CountByUploadIDs(ids)
	if err != nil {
		return nil, err
	}

	items := make([]UploadListItem, 0, len(uploads))
	for _, u := range uploads {
		items = append(items, UploadListItem{Upload: u, HasInsights: counts[u.ID] > 0})
	}
	return items, nil
}

func (s *UploadService) Get(userID, uploadID uint) (*UploadDetail, error) {
	if userID == 0 || uploadID == 0 {
		return nil, ErrInvalidInput
	}

	upload, err := s.uploads.GetByIDAndUserID(uploadID, userID)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, ErrUploadNotFound
	}

	insights, err := s.insights.ListByUploadID(uploadID)
	if err != nil {
		return nil, err
	}
	if insights == nil {
		insights = []model.Insight{}
	}
	return &UploadDetail{Upload: *upload, Insights: insights}, nil
}

// Delete removes the stored object, the insight rows, and the upload row.
// Ownership failures are indistinguishable from absence.
func (s *UploadService) Delete(ctx context.Context, userID, uploadID uint) error {
	if userID == 0 || uploadID == 0 {
		return ErrInvalidInput
	}

	upload, err := s.uploads.GetByIDAndUserID(uploadID, userID)
	if err != nil {
		return err
	}
	if upload == nil {
		return ErrUploadNotFound
	}

	if err := s.objects.Delete(ctx, upload.ObjectKey); err != nil {
		return fmt.Errorf("delete stored object failed: %w", err)
	}
	if err := s.insights.DeleteByUploadID(uploadID); err != nil {
		return err
	}
	if err := s.uploads.DeleteByIDAndUserID(uploadID, userID); err != nil {
		return err
	}

	s.publishEvent(ctx, userID, uploadID, model.ActionUploadDeleted, upload.Filename)
	return nil
}

// publishEvent is fire-and-forget: the activity log never blocks or fails a
// user request.
func (s *UploadService) publishEvent(ctx context.Context, userID, uploadID uint, action, detail string) {
	if s.events == nil {
		return
	}
	event := model.ActivityEvent{
		UserID:   userID,
		UploadID: uploadID,
		Action:   action,
		Detail:   detail,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("publish %s event failed: %v", action, err)
	}
}
