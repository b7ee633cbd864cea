package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
	"github.com/keraza-portal/keraza-go-api/pkg/docwriter"
)

var (
	// ErrContentNotFound indicates no document exists for the given id.
	ErrContentNotFound = errors.New("content document not found")
	// ErrUnknownCollection indicates the collection name is not one of the
	// recognized reference collections.
	ErrUnknownCollection = errors.New("unknown content collection")
	// ErrNotAudio indicates an uploaded recording is not an audio file.
	ErrNotAudio = errors.New("uploaded file is not audio")
	// ErrAudioUnsupported indicates the collection does not carry recordings.
	ErrAudioUnsupported = errors.New("collection does not support audio")
)

// AudioUploader stores a recording and returns its public URL.
type AudioUploader interface {
	UploadAudio(ctx context.Context, collection, name string, reader io.Reader) (string, error)
}

// ContentService manages the reference collections (Agbya, Taks, Coptic,
// Hymns): CRUD, Word export and hymn recordings.
type ContentService interface {
	List(ctx context.Context, collection string) ([]dto.ContentResponse, error)
	Get(ctx context.Context, collection, id string) (dto.ContentResponse, error)
	Create(ctx context.Context, collection string, req dto.ContentCreateRequest) (dto.ContentResponse, error)
	Update(ctx context.Context, collection, id string, req dto.ContentUpdateRequest) (dto.ContentResponse, error)
	Delete(ctx context.Context, collection, id string) error
	ExportWord(ctx context.Context, collection, id string) ([]byte, string, error)
	AttachAudio(ctx context.Context, collection, id, filename string, file io.Reader) (dto.ContentResponse, error)
}

type contentService struct {
	repos    map[string]repository.ContentRepository
	uploader AudioUploader
	policy   *bluemonday.Policy
	logger   zerolog.Logger
}

// NewContentService constructs a content service over one repository per
// recognized collection. uploader may be nil, which disables recordings.
func NewContentService(repos map[string]repository.ContentRepository, uploader AudioUploader, logger zerolog.Logger) ContentService {
	return &contentService{
		repos:    repos,
		uploader: uploader,
		policy:   bluemonday.UGCPolicy(),
		logger:   logger.With().Str("component", "content_service").Logger(),
	}
}

func (s *contentService) repo(collection string) (repository.ContentRepository, error) {
	repo, ok := s.repos[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return repo, nil
}

func (s *contentService) List(ctx context.Context, collection string) ([]dto.ContentResponse, error) {
	repo, err := s.repo(collection)
	if err != nil {
		return nil, err
	}

	docs, err := repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s documents: %w", collection, err)
	}

	items := make([]dto.ContentResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.NewContentResponse(doc))
	}
	return items, nil
}

func (s *contentService) Get(ctx context.Context, collection, id string) (dto.ContentResponse, error) {
	repo, err := s.repo(collection)
	if err != nil {
		return dto.ContentResponse{}, err
	}

	doc, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dto.ContentResponse{}, ErrContentNotFound
		}
		return dto.ContentResponse{}, fmt.Errorf("get %s document %s: %w", collection, id, err)
	}
	return dto.NewContentResponse(doc), nil
}

func (s *contentService) Create(ctx context.Context, collection string, req dto.ContentCreateRequest) (dto.ContentResponse, error) {
	repo, err := s.repo(collection)
	if err != nil {
		return dto.ContentResponse{}, err
	}

	doc := models.ContentDocument{
		ID:                  uuid.NewString(),
		Title:               strings.TrimSpace(req.Title),
		ArabicContent:       s.policy.Sanitize(req.ArabicContent),
		CopticContent:       s.policy.Sanitize(req.CopticContent),
		CopticArabicContent: s.policy.Sanitize(req.CopticArabicContent),
		Term:                req.Term,
		YearNumber:          req.YearNumber,
		AgeLevel:            req.AgeLevel,
		Audio:               req.Audio,
	}

	if err := repo.Create(ctx, &doc); err != nil {
		return dto.ContentResponse{}, fmt.Errorf("create %s document: %w", collection, err)
	}

	s.logger.Info().Str("collection", collection).Str("id", doc.ID).Msg("content document created")
	return dto.NewContentResponse(doc), nil
}

func (s *contentService) Update(ctx context.Context, collection, id string, req dto.ContentUpdateRequest) (dto.ContentResponse, error) {
	repo, err := s.repo(collection)
	if err != nil {
		return dto.ContentResponse{}, err
	}

	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.ArabicContent != nil {
		fields["arabicContent"] = s.policy.Sanitize(*req.ArabicContent)
	}
	if req.CopticContent != nil {
		fields["copticContent"] = s.policy.Sanitize(*req.CopticContent)
	}
	if req.CopticArabicContent != nil {
		fields["copticArabicContent"] = s.policy.Sanitize(*req.CopticArabicContent)
	}
	if req.Term != nil {
		fields["term"] = *req.Term
	}
	if req.YearNumber != nil {
		fields["yearNumber"] = *req.YearNumber
	}
	if req.AgeLevel != nil {
		fields["ageLevel"] = req.AgeLevel
	}
	if req.Audio != nil {
		fields["audio"] = *req.Audio
	}

	if len(fields) > 0 {
		if err := repo.Update(ctx, id, fields); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return dto.ContentResponse{}, ErrContentNotFound
			}
			return dto.ContentResponse{}, fmt.Errorf("update %s document %s: %w", collection, id, err)
		}
	}

	return s.Get(ctx, collection, id)
}

func (s *contentService) Delete(ctx context.Context, collection, id string) error {
	repo, err := s.repo(collection)
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrContentNotFound
		}
		return fmt.Errorf("delete %s document %s: %w", collection, id, err)
	}

	s.logger.Info().Str("collection", collection).Str("id", id).Msg("content document deleted")
	return nil
}

// ExportWord renders one document as a Word file and returns the bytes plus
// a suggested filename.
func (s *contentService) ExportWord(ctx context.Context, collection, id string) ([]byte, string, error) {
	repo, err := s.repo(collection)
	if err != nil {
		return nil, "", err
	}

	doc, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrContentNotFound
		}
		return nil, "", fmt.Errorf("load %s document %s: %w", collection, id, err)
	}

	sections := make([]docwriter.Section, 0, 3)
	if doc.ArabicContent != "" {
		sections = append(sections, docwriter.Section{Title: "Arabic", Body: doc.ArabicContent})
	}
	if doc.CopticContent != "" {
		sections = append(sections, docwriter.Section{Title: "Coptic", Body: doc.CopticContent})
	}
	if doc.CopticArabicContent != "" {
		sections = append(sections, docwriter.Section{Title: "Coptic (Arabic letters)", Body: doc.CopticArabicContent})
	}

	data, err := docwriter.Build(doc.Title, sections)
	if err != nil {
		return nil, "", fmt.Errorf("render %s document %s: %w", collection, id, err)
	}

	filename := fmt.Sprintf("%s_%s.docx", collection, doc.ID)
	return data, filename, nil
}

// AttachAudio stores a recording for a hymn document and writes the public
// URL onto it. Only the hymns collection carries recordings.
func (s *contentService) AttachAudio(ctx context.Context, collection, id, filename string, file io.Reader) (dto.ContentResponse, error) {
	if collection != models.CollectionHymns {
		return dto.ContentResponse{}, ErrAudioUnsupported
	}
	if s.uploader == nil {
		return dto.ContentResponse{}, ErrAudioUnsupported
	}

	repo, err := s.repo(collection)
	if err != nil {
		return dto.ContentResponse{}, err
	}

	if _, err := repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dto.ContentResponse{}, ErrContentNotFound
		}
		return dto.ContentResponse{}, fmt.Errorf("load %s document %s: %w", collection, id, err)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return dto.ContentResponse{}, fmt.Errorf("read recording: %w", err)
	}

	kind := mimetype.Detect(raw)
	if !strings.HasPrefix(kind.String(), "audio/") && !strings.HasPrefix(kind.String(), "video/") {
		return dto.ContentResponse{}, fmt.Errorf("%w: detected %s", ErrNotAudio, kind.String())
	}

	url, err := s.uploader.UploadAudio(ctx, collection, filename, bytes.NewReader(raw))
	if err != nil {
		return dto.ContentResponse{}, fmt.Errorf("store recording: %w", err)
	}

	if err := repo.Update(ctx, id, map[string]interface{}{"audio": url}); err != nil {
		return dto.ContentResponse{}, fmt.Errorf("attach recording to %s: %w", id, err)
	}

	s.logger.Info().Str("id", id).Str("mime", kind.String()).Msg("recording attached")
	return s.Get(ctx, collection, id)
}
