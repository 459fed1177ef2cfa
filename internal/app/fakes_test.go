package app

import (
	"context"
	"errors"
	"fmt"

	"filesight/internal/ai"
	"filesight/internal/model"
)

type fakeUserStore struct {
	users  map[string]*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserStore) Create(user *model.User) error {
	if _, ok := f.users[user.Email]; ok {
		return errors.New("duplicate email")
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByID(id uint) (*model.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeUploadStore struct {
	uploads map[uint]*model.Upload
	nextID  uint
	failOn  string
}

func newFakeUploadStore() *fakeUploadStore {
	return &fakeUploadStore{uploads: make(map[uint]*model.Upload), nextID: 1}
}

func (f *fakeUploadStore) Create(upload *model.Upload) error {
	if f.failOn == "create" {
		return errors.New("insert failed")
	}
	upload.ID = f.nextID
	f.nextID++
	copied := *upload
	f.uploads[upload.ID] = &copied
	return nil
}

func (f *fakeUploadStore) ListByUserID(userID uint) ([]model.Upload, error) {
	var out []model.Upload
	for _, u := range f.uploads {
		if u.UserID == userID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUploadStore) GetByIDAndUserID(id, userID uint) (*model.Upload, error) {
	u, ok := f.uploads[id]
	if !ok || u.UserID != userID {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUploadStore) DeleteByIDAndUserID(id, userID uint) error {
	u, ok := f.uploads[id]
	if ok && u.UserID == userID {
		delete(f.uploads, id)
	}
	return nil
}

type fakeInsightStore struct {
	insights map[uint][]model.Insight
	nextID   uint
}

func newFakeInsightStore() *fakeInsightStore {
	return &fakeInsightStore{insights: make(map[uint][]model.Insight), nextID: 1}
}

func (f *fakeInsightStore) ListByUploadID(uploadID uint) ([]model.Insight, error) {
	return append([]model.Insight(nil), f.insights[uploadID]...), nil
}

func (f *fakeInsightStore) CountByUploadIDs(uploadIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	for _, id := range uploadIDs {
		if n := len(f.insights[id]); n > 0 {
			counts[id] = int64(n)
		}
	}
	return counts, nil
}

func (f *fakeInsightStore) CreateIfAbsent(insight *model.Insight) ([]model.Insight, bool, error) {
	if existing := f.insights[insight.UploadID]; len(existing) > 0 {
		return append([]model.Insight(nil), existing...), false, nil
	}
	insight.ID = f.nextID
	f.nextID++
	f.insights[insight.UploadID] = []model.Insight{*insight}
	return []model.Insight{*insight}, true, nil
}

func (f *fakeInsightStore) DeleteByUploadID(uploadID uint) error {
	delete(f.insights, uploadID)
	return nil
}

type fakeObjectStore struct {
	objects map[string][]byte
	puts    int
	deletes int
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, ownerID uint, filename, _ string, data []byte) (string, string, error) {
	if f.putErr != nil {
		return "", "", f.putErr
	}
	f.puts++
	key := fmt.Sprintf("%d/%s", ownerID, filename)
	f.objects[key] = data
	return key, "http://localhost:9000/uploads/" + key, nil
}

func (f *fakeObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.deletes++
	delete(f.objects, key)
	return nil
}

type fakeProvider struct {
	textCalls  int
	imageCalls int
	lastText   string
	lastBase64 string
	lastMedia  string
}

func (f *fakeProvider) AnalyzeText(_ context.Context, text string) ai.Result {
	f.textCalls++
	f.lastText = text
	return ai.Result{
		Content: model.InsightContent{
			Summary:     "fake summary",
			Sentiment:   &model.Sentiment{Label: "neutral", Score: 0.5, Explanation: "fake"},
			KeyInsights: []string{"fake insight"},
		},
		Source: ai.SourceLive,
	}
}

func (f *fakeProvider) AnalyzeImage(_ context.Context, imageBase64, mediaType string) ai.Result {
	f.imageCalls++
	f.lastBase64 = imageBase64
	f.lastMedia = mediaType
	return ai.Result{
		Content: model.InsightContent{
			ImageDescription: "fake description",
			Objects:          []string{"thing"},
			Themes:           []string{"theme"},
		},
		Source: ai.SourceLive,
	}
}

func (f *fakeProvider) UsingMock() bool { return false }

func newInsightForUpload(uploadID uint) *model.Insight {
	return &model.Insight{
		UploadID: uploadID,
		Type:     model.InsightTypeText,
		Content:  model.InsightContent{Summary: "seed"},
	}
}

type fakePublisher struct {
	events []model.ActivityEvent
}

func (f *fakePublisher) Publish(_ context.Context, event model.ActivityEvent) error {
	f.events = append(f.events, event)
	return nil
}
