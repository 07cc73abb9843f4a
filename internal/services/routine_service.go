package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/metrics"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/repositories"
	"workout_scheduler/internal/services/dto"
	"workout_scheduler/pkg/apperrors"
)

// orderColumns - поля сортировки, доступные клиенту
var orderColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"createdAt":  "created_at",
	"created_at": "created_at",
}

// PaginationConfig - значения страницы по умолчанию
type PaginationConfig struct {
	DefaultSize int
	MaxSize     int
	DefaultSort string
}

type RoutineService interface {
	SearchRoutinesByFilters(ctx context.Context, db *gorm.DB, req *dto.RoutineFiltersRequest) ([]*dto.RoutineResponse, error)
	GetRoutineByID(ctx context.Context, db *gorm.DB, id string) (*dto.RoutineResponse, error)
	GetUserRoutines(ctx context.Context, db *gorm.DB, userID string) ([]*dto.RoutineResponse, error)
	CreateRoutine(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateRoutineRequest) (*dto.CreateRoutineResponse, error)
	ChangeRoutineName(ctx context.Context, db *gorm.DB, userID, id, newName string) error
	DeleteRoutine(ctx context.Context, db *gorm.DB, userID, id string) error
	// PurgeRoutine физически удаляет программу вместе с записями, оценками и списками
	PurgeRoutine(ctx context.Context, db *gorm.DB, id string) error
}

type routineService struct {
	routineRepo  repositories.RoutineRepository
	entryRepo    repositories.RoutineEntryRepository
	ratingRepo   repositories.RatingRepository
	savedRepo    repositories.SavedRoutineRepository
	userRepo     repositories.UserRepository
	entryService RoutineEntryService
	pagination   PaginationConfig
}

func NewRoutineService(
	routineRepo repositories.RoutineRepository,
	entryRepo repositories.RoutineEntryRepository,
	ratingRepo repositories.RatingRepository,
	savedRepo repositories.SavedRoutineRepository,
	userRepo repositories.UserRepository,
	entryService RoutineEntryService,
	pagination PaginationConfig,
) RoutineService {
	if pagination.DefaultSize <= 0 {
		pagination.DefaultSize = 10
	}
	if pagination.MaxSize < pagination.DefaultSize {
		pagination.MaxSize = pagination.DefaultSize
	}
	if col, ok := orderColumns[pagination.DefaultSort]; ok {
		pagination.DefaultSort = col
	} else {
		pagination.DefaultSort = "created_at"
	}
	return &routineService{
		routineRepo:  routineRepo,
		entryRepo:    entryRepo,
		ratingRepo:   ratingRepo,
		savedRepo:    savedRepo,
		userRepo:     userRepo,
		entryService: entryService,
		pagination:   pagination,
	}
}

// BuildRoutinePredicate собирает конъюнкцию из заданных фильтров; неактивные программы отсекаются всегда
func BuildRoutinePredicate(req *dto.RoutineFiltersRequest) repositories.RoutinePredicate {
	preds := repositories.And{repositories.EnabledOnly{}}

	if dto.NotBlank(req.Name) {
		preds = append(preds, repositories.NameContains{Value: *req.Name})
	}
	if dto.NotBlank(req.MainMuscle) {
		preds = append(preds, repositories.MuscleEquals{Field: repositories.MainMuscle, Value: *req.MainMuscle})
	}
	if dto.NotBlank(req.SecondaryMuscle) {
		preds = append(preds, repositories.MuscleEquals{Field: repositories.SecondaryMuscle, Value: *req.SecondaryMuscle})
	}
	if req.Before != nil {
		preds = append(preds, repositories.DateBefore{At: *req.Before})
	}
	if req.After != nil {
		preds = append(preds, repositories.DateAfter{At: *req.After})
	}
	if len(req.Dates) == 2 {
		preds = append(preds, repositories.DateBetween{From: req.Dates[0], To: req.Dates[1]})
	}
	if len(req.Exercises) > 0 {
		preds = append(preds, repositories.ExerciseNameIn{Names: req.Exercises})
	}
	return preds
}

func (s *routineService) pageRequest(p *dto.PageRequestDTO) (repositories.PageRequest, error) {
	page := repositories.PageRequest{
		Size:        s.pagination.DefaultSize,
		OrderColumn: s.pagination.DefaultSort,
	}
	if p == nil {
		return page, nil
	}

	if p.Page > 0 {
		page.Page = p.Page
	}
	if p.Size > 0 {
		page.Size = p.Size
	}
	if page.Size > s.pagination.MaxSize {
		page.Size = s.pagination.MaxSize
	}
	if p.OrderField != "" {
		col, ok := orderColumns[p.OrderField]
		if !ok {
			return page, apperrors.NewBadRequestError("Unsupported order field: " + p.OrderField)
		}
		page.OrderColumn = col
	}
	page.Desc = strings.EqualFold(p.Direction, "desc")
	return page, nil
}

func (s *routineService) SearchRoutinesByFilters(ctx context.Context, db *gorm.DB, req *dto.RoutineFiltersRequest) ([]*dto.RoutineResponse, error) {
	if req == nil {
		req = &dto.RoutineFiltersRequest{}
	}
	if req.Dates != nil && len(req.Dates) != 2 {
		return nil, apperrors.ErrBetweenRequiresTwoDates
	}

	page, err := s.pageRequest(req.PageRequest)
	if err != nil {
		return nil, err
	}

	routines, err := s.routineRepo.SearchRoutines(db, BuildRoutinePredicate(req), page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ranked := req.MostPopular && req.IsSomeFilterActive()
	metrics.RecordRoutineSearch(ranked)
	if !ranked {
		return dto.ToRoutineResponses(routines), nil
	}

	ordered, err := s.rankByPopularity(db, routines)
	if err != nil {
		return nil, err
	}
	logger.CtxDebug(ctx, "Routines ranked by popularity", "count", len(ordered))
	return dto.ToRoutineResponses(ordered), nil
}

// rankByPopularity переупорядочивает страницу по рейтингу; программы вне рейтинга отбрасываются
func (s *routineService) rankByPopularity(db *gorm.DB, routines []models.Routine) ([]models.Routine, error) {
	if len(routines) == 0 {
		return routines, nil
	}

	byID := make(map[string]models.Routine, len(routines))
	ids := make([]string, 0, len(routines))
	for _, r := range routines {
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}

	rankedIDs, err := s.routineRepo.RankRoutinesByPopularity(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]models.Routine, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *routineService) GetRoutineByID(ctx context.Context, db *gorm.DB, id string) (*dto.RoutineResponse, error) {
	routine, err := s.routineRepo.FindEnabledRoutineByID(db, id)
	if err != nil {
		return nil, translateError(err)
	}
	return dto.ToRoutineResponse(routine), nil
}

func (s *routineService) GetUserRoutines(ctx context.Context, db *gorm.DB, userID string) ([]*dto.RoutineResponse, error) {
	if _, err := s.userRepo.FindEnabledUserByID(db, userID); err != nil {
		return nil, translateError(err)
	}

	routines, err := s.routineRepo.FindEnabledRoutinesByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToRoutineResponses(routines), nil
}

func (s *routineService) CreateRoutine(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateRoutineRequest) (*dto.CreateRoutineResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindEnabledUserByID(tx, userID)
	if err != nil {
		return nil, translateError(err)
	}

	entries, err := s.entryService.CreateRoutineEntries(ctx, tx, req.Exercises)
	if err != nil {
		return nil, err
	}

	routine := &models.Routine{
		Name:    strings.TrimSpace(req.Name),
		UserID:  user.ID,
		Enabled: true,
		Entries: entries,
	}
	if err := s.routineRepo.CreateRoutine(tx, routine); err != nil {
		return nil, translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Routine created", "routine_id", routine.ID, "entries", len(entries))
	return &dto.CreateRoutineResponse{ID: routine.ID}, nil
}

func (s *routineService) ChangeRoutineName(ctx context.Context, db *gorm.DB, userID, id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperrors.NewBadRequestError("New routine name must not be blank")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	routine, err := s.routineRepo.FindEnabledRoutineByID(tx, id)
	if err != nil {
		return translateError(err)
	}
	if routine.UserID != userID {
		return apperrors.ErrNotRoutineOwner
	}

	if err := s.routineRepo.UpdateRoutineName(tx, id, newName); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *routineService) DeleteRoutine(ctx context.Context, db *gorm.DB, userID, id string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	routine, err := s.routineRepo.FindEnabledRoutineByID(tx, id)
	if err != nil {
		return translateError(err)
	}
	if routine.UserID != userID {
		return apperrors.ErrNotRoutineOwner
	}

	if err := s.routineRepo.DisableRoutine(tx, id); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Routine disabled", "routine_id", id)
	return nil
}

func (s *routineService) PurgeRoutine(ctx context.Context, db *gorm.DB, id string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.routineRepo.FindRoutineByID(tx, id); err != nil {
		return translateError(err)
	}

	// Порядок важен: зависимые строки раньше самой программы
	if err := s.entryRepo.DeleteEntriesByRoutine(tx, id); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.ratingRepo.DeleteRatingsByRoutine(tx, id); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.savedRepo.DeleteSavedRoutinesByRoutine(tx, id); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.routineRepo.DeleteRoutine(tx, id); err != nil {
		return translateError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxWarn(ctx, "Routine purged", "routine_id", id)
	return nil
}
