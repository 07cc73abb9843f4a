package models

import "time"

// Routine - программа тренировок. UserID хранится в колонке created_by
type Routine struct {
	BaseModel
	Name    string `gorm:"size:150;not null"`
	UserID  string `gorm:"column:created_by;type:varchar(36);index;not null"`
	Enabled bool   `gorm:"not null;default:true"`

	User    *User           `gorm:"foreignKey:UserID"`
	Entries []RoutineEntry  `gorm:"foreignKey:RoutineID"`
	Ratings []RoutineRating `gorm:"foreignKey:RoutineID"`
}

// HasExercise проверяет загруженные записи
func (r *Routine) HasExercise(exerciseID string) bool {
	for _, e := range r.Entries {
		if e.ExerciseID == exerciseID {
			return true
		}
	}
	return false
}

// RoutineEntry - упражнение внутри программы, одно на (routine, exercise)
type RoutineEntry struct {
	BaseModel
	RoutineID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_routine_entry_exercise"`
	ExerciseID  string `gorm:"type:varchar(36);not null;uniqueIndex:idx_routine_entry_exercise"`
	Sets        int    `gorm:"not null"`
	Reps        int    `gorm:"not null"`
	RestSeconds *int
	Notes       *string `gorm:"type:text"`

	Exercise *Exercise `gorm:"foreignKey:ExerciseID"`
}

// RoutineRating - CreatedBy хранит id пользователя без связи
type RoutineRating struct {
	BaseModel
	RoutineID  string `gorm:"type:varchar(36);index;not null"`
	Stars      int    `gorm:"not null"`
	Comment    string `gorm:"type:text"`
	CreatedBy  string `gorm:"type:varchar(36);index;not null"`
	ModifiedAt *time.Time
	Enabled    bool `gorm:"not null;default:true"`
}

// SavedRoutine - членство программы в списке пользователя
type SavedRoutine struct {
	BaseModel
	UserID    string   `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_routine_membership"`
	RoutineID string   `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_routine_membership;index"`
	ListType  ListType `gorm:"type:varchar(10);not null;uniqueIndex:idx_saved_routine_membership"`

	Routine *Routine `gorm:"foreignKey:RoutineID"`
}
