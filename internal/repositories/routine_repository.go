package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workout_scheduler/internal/models"
)

// Ранжирование: активные оценки + отметки LIKED, по убыванию
const popularitySQL = `SELECT r.id FROM routines r
LEFT JOIN routine_ratings rr ON rr.routine_id = r.id AND rr.enabled = ?
LEFT JOIN saved_routines sr ON sr.routine_id = r.id AND sr.list_type = ?
WHERE r.id IN ?
GROUP BY r.id
ORDER BY (COUNT(DISTINCT rr.id) + COUNT(DISTINCT sr.id)) DESC, r.id ASC`

type RoutineRepository interface {
	CreateRoutine(db *gorm.DB, routine *models.Routine) error
	FindEnabledRoutineByID(db *gorm.DB, id string) (*models.Routine, error)
	FindRoutineByID(db *gorm.DB, id string) (*models.Routine, error)
	FindEnabledRoutinesByUser(db *gorm.DB, userID string) ([]models.Routine, error)
	UpdateRoutineName(db *gorm.DB, id, name string) error
	DisableRoutine(db *gorm.DB, id string) error
	DeleteRoutine(db *gorm.DB, id string) error

	SearchRoutines(db *gorm.DB, predicate RoutinePredicate, page PageRequest) ([]models.Routine, error)
	RankRoutinesByPopularity(db *gorm.DB, ids []string) ([]string, error)
}

type RoutineRepositoryImpl struct{}

func NewRoutineRepository() RoutineRepository {
	return &RoutineRepositoryImpl{}
}

func withEntries(db *gorm.DB) *gorm.DB {
	return db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("routine_entries.created_at ASC")
	}).Preload("Entries.Exercise.Images")
}

// CreateRoutine сохраняет программу и ее записи; упражнения не трогаются
func (r *RoutineRepositoryImpl) CreateRoutine(db *gorm.DB, routine *models.Routine) error {
	entries := routine.Entries
	if err := db.Omit(clause.Associations).Create(routine).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].RoutineID = routine.ID
	}
	if err := db.Omit(clause.Associations).Create(&entries).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEntryAlreadyExists
		}
		return err
	}
	routine.Entries = entries
	return nil
}

func (r *RoutineRepositoryImpl) FindEnabledRoutineByID(db *gorm.DB, id string) (*models.Routine, error) {
	return r.findOne(db.Where("id = ? AND enabled = ?", id, true))
}

func (r *RoutineRepositoryImpl) FindRoutineByID(db *gorm.DB, id string) (*models.Routine, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *RoutineRepositoryImpl) findOne(query *gorm.DB) (*models.Routine, error) {
	var routine models.Routine
	if err := withEntries(query).First(&routine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return &routine, nil
}

func (r *RoutineRepositoryImpl) FindEnabledRoutinesByUser(db *gorm.DB, userID string) ([]models.Routine, error) {
	var routines []models.Routine
	err := withEntries(db).
		Where("created_by = ? AND enabled = ?", userID, true).
		Order("created_at DESC").
		Find(&routines).Error
	return routines, err
}

// UpdateRoutineName - существование проверяет сервис (mysql не считает строки без изменений)
func (r *RoutineRepositoryImpl) UpdateRoutineName(db *gorm.DB, id, name string) error {
	return db.Model(&models.Routine{}).Where("id = ?", id).Update("name", name).Error
}

func (r *RoutineRepositoryImpl) DisableRoutine(db *gorm.DB, id string) error {
	result := db.Model(&models.Routine{}).Where("id = ?", id).Update("enabled", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

// DeleteRoutine - физическое удаление; зависимые строки удаляются заранее
func (r *RoutineRepositoryImpl) DeleteRoutine(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Routine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

// SearchRoutines выполняет скомпилированный фильтр с пагинацией
func (r *RoutineRepositoryImpl) SearchRoutines(db *gorm.DB, predicate RoutinePredicate, page PageRequest) ([]models.Routine, error) {
	var routines []models.Routine
	err := withEntries(db.Model(&models.Routine{})).
		Scopes(CompileRoutinePredicate(predicate), page.scope).
		Find(&routines).Error
	return routines, err
}

// RankRoutinesByPopularity возвращает ids по убыванию популярности
func (r *RoutineRepositoryImpl) RankRoutinesByPopularity(db *gorm.DB, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	var ranked []string
	err := db.Raw(popularitySQL, true, models.ListTypeLiked, ids).Scan(&ranked).Error
	return ranked, err
}
