package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
)

type fakeContentRepo struct {
	docs map[string]models.ContentDocument
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{docs: make(map[string]models.ContentDocument)}
}

func (f *fakeContentRepo) GetAll(_ context.Context) ([]models.ContentDocument, error) {
	docs := make([]models.ContentDocument, 0, len(f.docs))
	for _, doc := range f.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *fakeContentRepo) GetByID(_ context.Context, id string) (models.ContentDocument, error) {
	doc, ok := f.docs[id]
	if !ok {
		return models.ContentDocument{}, mongo.ErrNoDocuments
	}
	return doc, nil
}

func (f *fakeContentRepo) Create(_ context.Context, doc *models.ContentDocument) error {
	doc.CreatedAt = time.Now().UTC()
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeContentRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	doc, ok := f.docs[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if title, ok := fields["title"].(string); ok {
		doc.Title = title
	}
	if audio, ok := fields["audio"].(string); ok {
		doc.Audio = audio
	}
	if arabic, ok := fields["arabicContent"].(string); ok {
		doc.ArabicContent = arabic
	}
	f.docs[id] = doc
	return nil
}

func (f *fakeContentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.docs, id)
	return nil
}

type fakeUploader struct {
	collection string
	name       string
	url        string
}

func (f *fakeUploader) UploadAudio(_ context.Context, collection, name string, _ io.Reader) (string, error) {
	f.collection = collection
	f.name = name
	return f.url, nil
}

func newContentFixture() (ContentService, *fakeContentRepo, *fakeUploader) {
	hymns := newFakeContentRepo()
	repos := map[string]repository.ContentRepository{
		models.CollectionAgbya: newFakeContentRepo(),
		models.CollectionHymns: hymns,
	}
	uploader := &fakeUploader{url: "https://cdn.example/hymn.mp3"}
	return NewContentService(repos, uploader, zerolog.Nop()), hymns, uploader
}

func TestContentCreateSanitizesMarkup(t *testing.T) {
	svc, _, _ := newContentFixture()

	doc, err := svc.Create(context.Background(), models.CollectionAgbya, dto.ContentCreateRequest{
		Title:         "  First Hour  ",
		ArabicContent: `<p>نص</p><script>alert("x")</script>`,
		Term:          1,
		YearNumber:    1,
	})
	require.NoError(t, err)
	require.Equal(t, "First Hour", doc.Title)
	require.Contains(t, doc.ArabicContent, "<p>")
	require.NotContains(t, doc.ArabicContent, "<script>")
	require.NotEmpty(t, doc.ID)
}

func TestContentRejectsUnknownCollection(t *testing.T) {
	svc, _, _ := newContentFixture()

	_, err := svc.List(context.Background(), "sermons")
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestAttachAudioOnlyOnHymns(t *testing.T) {
	svc, hymns, uploader := newContentFixture()

	doc, err := svc.Create(context.Background(), models.CollectionHymns, dto.ContentCreateRequest{
		Title: "Aripsalin", Term: 2, YearNumber: 1,
	})
	require.NoError(t, err)

	// ID3v2 magic marks the payload as MP3 audio
	recording := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0}, 64)...)
	updated, err := svc.AttachAudio(context.Background(), models.CollectionHymns, doc.ID, "aripsalin.mp3", bytes.NewReader(recording))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/hymn.mp3", updated.Audio)
	require.Equal(t, models.CollectionHymns, uploader.collection)
	require.Equal(t, "https://cdn.example/hymn.mp3", hymns.docs[doc.ID].Audio)

	_, err = svc.AttachAudio(context.Background(), models.CollectionAgbya, doc.ID, "x.mp3", bytes.NewReader(recording))
	require.ErrorIs(t, err, ErrAudioUnsupported)
}

func TestAttachAudioRejectsNonAudioPayload(t *testing.T) {
	svc, _, _ := newContentFixture()

	doc, err := svc.Create(context.Background(), models.CollectionHymns, dto.ContentCreateRequest{
		Title: "Aripsalin", Term: 2, YearNumber: 1,
	})
	require.NoError(t, err)

	_, err = svc.AttachAudio(context.Background(), models.CollectionHymns, doc.ID, "notes.txt", bytes.NewReader([]byte("plain text payload")))
	require.ErrorIs(t, err, ErrNotAudio)
}

func TestExportWordIncludesStoredSections(t *testing.T) {
	svc, _, _ := newContentFixture()

	doc, err := svc.Create(context.Background(), models.CollectionAgbya, dto.ContentCreateRequest{
		Title:         "First Hour",
		ArabicContent: "content body",
		Term:          1,
		YearNumber:    1,
	})
	require.NoError(t, err)

	data, filename, err := svc.ExportWord(context.Background(), models.CollectionAgbya, doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Equal(t, "agbya_"+doc.ID+".docx", filename)
}
