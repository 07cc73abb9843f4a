package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoutinePredicate - узел дерева фильтров поиска программ.
// Дерево компилируется в scope gorm через CompileRoutinePredicate
type RoutinePredicate interface {
	isRoutinePredicate()
}

// MuscleField - какая мышца упражнения сравнивается
type MuscleField int

const (
	MainMuscle MuscleField = iota
	SecondaryMuscle
)

type (
	// And - конъюнкция; пустой And ничего не ограничивает
	And []RoutinePredicate

	// EnabledOnly исключает мягко удаленные программы
	EnabledOnly struct{}

	// NameContains - подстрока имени без учета регистра
	NameContains struct{ Value string }

	// MuscleEquals - хотя бы одно упражнение программы с такой мышцей
	MuscleEquals struct {
		Field MuscleField
		Value string
	}

	// DateBefore - создана строго раньше
	DateBefore struct{ At time.Time }

	// DateAfter - создана строго позже
	DateAfter struct{ At time.Time }

	// DateBetween - включительно с обеих сторон
	DateBetween struct{ From, To time.Time }

	// ExerciseNameIn - хотя бы одно упражнение с именем из набора (без учета регистра)
	ExerciseNameIn struct{ Names []string }
)

func (And) isRoutinePredicate()            {}
func (EnabledOnly) isRoutinePredicate()    {}
func (NameContains) isRoutinePredicate()   {}
func (MuscleEquals) isRoutinePredicate()   {}
func (DateBefore) isRoutinePredicate()     {}
func (DateAfter) isRoutinePredicate()      {}
func (DateBetween) isRoutinePredicate()    {}
func (ExerciseNameIn) isRoutinePredicate() {}

// Каждое условие по упражнениям - отдельный коррелированный подзапрос,
// поэтому строки программ не дублируются
const entryExistsPrefix = "EXISTS (SELECT 1 FROM routine_entries re JOIN exercises e ON e.id = re.exercise_id WHERE re.routine_id = routines.id AND "

// CompileRoutinePredicate превращает дерево в scope для db.Scopes(...)
func CompileRoutinePredicate(p RoutinePredicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return applyPredicate(db, p)
	}
}

func applyPredicate(db *gorm.DB, p RoutinePredicate) *gorm.DB {
	switch v := p.(type) {
	case nil:
		return db
	case And:
		for _, child := range v {
			db = applyPredicate(db, child)
		}
		return db
	case EnabledOnly:
		return db.Where("routines.enabled = ?", true)
	case NameContains:
		return db.Where("LOWER(routines.name) LIKE ?", "%"+strings.ToLower(v.Value)+"%")
	case MuscleEquals:
		column := "e.main_muscle"
		if v.Field == SecondaryMuscle {
			column = "e.secondary_muscle"
		}
		return db.Where(entryExistsPrefix+"LOWER("+column+") = ?)", strings.ToLower(v.Value))
	case DateBefore:
		return db.Where("routines.created_at < ?", v.At)
	case DateAfter:
		return db.Where("routines.created_at > ?", v.At)
	case DateBetween:
		return db.Where("routines.created_at BETWEEN ? AND ?", v.From, v.To)
	case ExerciseNameIn:
		return db.Where(entryExistsPrefix+"LOWER(e.name) IN ?)", lowerSet(v.Names))
	default:
		_ = db.AddError(ErrUnsupportedPredicate)
		return db
	}
}

func lowerSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		l := strings.ToLower(v)
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// PageRequest - страница с нуля, колонка сортировки уже проверена сервисом
type PageRequest struct {
	Page        int
	Size        int
	OrderColumn string
	Desc        bool
}

func (p PageRequest) scope(db *gorm.DB) *gorm.DB {
	if p.OrderColumn != "" {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "routines", Name: p.OrderColumn},
			Desc:   p.Desc,
		})
	}
	if p.Size > 0 {
		db = db.Offset(p.Page * p.Size).Limit(p.Size)
	}
	return db
}
