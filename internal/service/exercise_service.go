package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/errs"
	"gymhero/training-api/internal/policy"
	"gymhero/training-api/internal/repository"
	"gymhero/training-api/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const labelExercise = "Exercise"

// ExerciseInput is the payload of a new exercise.
type ExerciseInput struct {
	Name             string
	Description      *string
	TargetBodyPartID int64
	ExerciseTypeID   int64
	LevelID          int64
}

// MediaURL is a presigned URL for an exercise's media object.
type MediaURL struct {
	URL       string
	Method    string
	Key       string
	ExpiresAt time.Time
}

// --- Service Interface ---
type ExerciseService interface {
	Create(ctx context.Context, actor *domain.User, in ExerciseInput) (*domain.Exercise, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.Exercise, error)
	GetByName(ctx context.Context, actor *domain.User, name string) (*domain.Exercise, error)
	ListAll(ctx context.Context, page repository.Page) ([]domain.Exercise, error)
	ListMine(ctx context.Context, actor *domain.User, page repository.Page) ([]domain.Exercise, error)
	Update(ctx context.Context, actor *domain.User, id int64, patch domain.ExercisePatch) (*domain.Exercise, error)
	// Delete removes the exercise from every training unit, then the
	// exercise itself, then its media object.
	Delete(ctx context.Context, actor *domain.User, id int64) (*domain.Exercise, error)

	// CreateMediaUpload assigns a fresh media key and returns a PUT URL for it.
	CreateMediaUpload(ctx context.Context, actor *domain.User, id int64, contentType string) (*MediaURL, error)
	// MediaDownload returns a GET URL for the exercise's media.
	MediaDownload(ctx context.Context, actor *domain.User, id int64) (*MediaURL, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exercises     owned[domain.Exercise]
	unitExercises repository.JoinRepository
	tx            repository.Transactor
	media         storage.FileStorage
	mediaExpiry   time.Duration
	log           zerolog.Logger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(store *repository.Store, media storage.FileStorage, mediaExpiry time.Duration, log zerolog.Logger) ExerciseService {
	if media == nil {
		media = storage.Disabled{}
	}
	if mediaExpiry <= 0 {
		mediaExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exerciseService{
		exercises:     owned[domain.Exercise]{repo: store.Exercises, label: labelExercise},
		unitExercises: store.UnitExercises,
		tx:            store.Tx,
		media:         media,
		mediaExpiry:   mediaExpiry,
		log:           log.With().Str("service", "exercise").Logger(),
	}
}

func (s *exerciseService) Create(ctx context.Context, actor *domain.User, in ExerciseInput) (*domain.Exercise, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errs.Invalid("name cannot be empty")
	}
	if in.TargetBodyPartID <= 0 || in.ExerciseTypeID <= 0 || in.LevelID <= 0 {
		return nil, errs.Invalid("target_body_part_id, exercise_type_id and level_id are required")
	}

	exercise := &domain.Exercise{
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		TargetBodyPartID: in.TargetBodyPartID,
		ExerciseTypeID:   in.ExerciseTypeID,
		LevelID:          in.LevelID,
	}
	created, err := s.exercises.create(ctx, actor, exercise)
	if err != nil {
		return nil, s.referenceError(err)
	}
	s.log.Info().Int64("id", created.ID).Int64("owner_id", created.OwnerID).Msg("exercise created")
	return created, nil
}

func (s *exerciseService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Exercise, error) {
	return s.exercises.get(ctx, actor, id)
}

func (s *exerciseService) GetByName(ctx context.Context, actor *domain.User, name string) (*domain.Exercise, error) {
	return s.exercises.getByName(ctx, actor, name)
}

func (s *exerciseService) ListAll(ctx context.Context, page repository.Page) ([]domain.Exercise, error) {
	return s.exercises.listAll(ctx, page)
}

func (s *exerciseService) ListMine(ctx context.Context, actor *domain.User, page repository.Page) ([]domain.Exercise, error) {
	return s.exercises.listMine(ctx, actor, page)
}

func (s *exerciseService) Update(ctx context.Context, actor *domain.User, id int64, patch domain.ExercisePatch) (*domain.Exercise, error) {
	if err := patch.Validate(); err != nil {
		return nil, errs.Invalid("%s", err.Error())
	}
	patch.Name.Value = strings.TrimSpace(patch.Name.Value)
	updated, err := s.exercises.update(ctx, actor, id, patch)
	if err != nil {
		return nil, s.referenceError(err)
	}
	return updated, nil
}

func (s *exerciseService) Delete(ctx context.Context, actor *domain.User, id int64) (*domain.Exercise, error) {
	var deleted *domain.Exercise
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exercise, err := s.exercises.loadFor(ctx, actor, id, policy.Delete)
		if err != nil {
			return err
		}
		if err := s.unitExercises.DeleteByChild(ctx, id); err != nil {
			return fromStore(err, labelExercise)
		}
		deleted, err = s.exercises.repo.Delete(ctx, exercise)
		return fromStore(err, labelExercise)
	})
	if err != nil {
		return nil, err
	}

	if deleted.MediaKey != nil {
		if err := s.media.DeleteObject(ctx, *deleted.MediaKey); err != nil && !errors.Is(err, storage.ErrDisabled) {
			s.log.Warn().Err(err).Int64("id", id).Str("key", *deleted.MediaKey).Msg("failed to delete exercise media")
		}
	}
	s.log.Info().Int64("id", id).Msg("exercise deleted")
	return deleted, nil
}

func (s *exerciseService) CreateMediaUpload(ctx context.Context, actor *domain.User, id int64, contentType string) (*MediaURL, error) {
	contentType = strings.TrimSpace(contentType)
	if !strings.HasPrefix(contentType, "video/") && !strings.HasPrefix(contentType, "image/") {
		return nil, errs.Invalid("content_type must be an image or video type")
	}
	exercise, err := s.exercises.loadFor(ctx, actor, id, policy.Write)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exercises/%d/%s", id, uuid.NewString())
	url, err := s.media.GeneratePresignedUploadURL(ctx, key, contentType, s.mediaExpiry)
	if err != nil {
		return nil, s.mediaError(err)
	}

	previous := exercise.MediaKey
	if _, err := s.exercises.repo.Update(ctx, exercise, repository.Changes{"media_key": key}); err != nil {
		return nil, fromStore(err, labelExercise)
	}
	if previous != nil {
		if err := s.media.DeleteObject(ctx, *previous); err != nil {
			s.log.Warn().Err(err).Str("key", *previous).Msg("failed to delete replaced media")
		}
	}

	return &MediaURL{URL: url, Method: "PUT", Key: key, ExpiresAt: time.Now().Add(s.mediaExpiry)}, nil
}

func (s *exerciseService) MediaDownload(ctx context.Context, actor *domain.User, id int64) (*MediaURL, error) {
	exercise, err := s.exercises.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if exercise.MediaKey == nil {
		return nil, errs.NotFound("Exercise with id %d has no media", id)
	}
	url, err := s.media.GeneratePresignedDownloadURL(ctx, *exercise.MediaKey, s.mediaExpiry)
	if err != nil {
		return nil, s.mediaError(err)
	}
	return &MediaURL{URL: url, Method: "GET", Key: *exercise.MediaKey, ExpiresAt: time.Now().Add(s.mediaExpiry)}, nil
}

func (s *exerciseService) referenceError(err error) error {
	if errors.Is(err, errs.ErrReferential) {
		return errs.Referential("Level, body part or exercise type not found")
	}
	return err
}

func (s *exerciseService) mediaError(err error) error {
	if errors.Is(err, storage.ErrDisabled) {
		return errs.Unavailable("Media storage is not configured")
	}
	return errs.Internal(err)
}
