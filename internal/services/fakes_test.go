package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workout_scheduler/internal/email"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/repositories"
)

// ---------- users ----------

type fakeUserRepo struct {
	users     map[string]*models.User
	roles     map[models.RoleName]*models.Role
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: map[string]*models.User{},
		roles: map[models.RoleName]*models.Role{
			models.RoleUser:  {BaseModel: models.BaseModel{ID: "role-user"}, Name: models.RoleUser},
			models.RoleAdmin: {BaseModel: models.BaseModel{ID: "role-admin"}, Name: models.RoleAdmin},
		},
	}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) CreateUser(_ *gorm.DB, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) FindUserByID(_ *gorm.DB, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindEnabledUserByID(db *gorm.DB, id string) (*models.User, error) {
	u, err := r.FindUserByID(db, id)
	if err != nil || !u.Enabled {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindDisabledUserByID(db *gorm.DB, id string) (*models.User, error) {
	u, err := r.FindUserByID(db, id)
	if err != nil || u.Enabled {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindUserByLogin(_ *gorm.DB, login string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByUsername(_ *gorm.DB, username string) (bool, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ *gorm.DB, address string) (bool, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, address) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) EnableUser(_ *gorm.DB, id string) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Enabled = true
	return nil
}

func (r *fakeUserRepo) FindRoleByName(_ *gorm.DB, name models.RoleName) (*models.Role, error) {
	if role, ok := r.roles[name]; ok {
		return role, nil
	}
	return nil, repositories.ErrRoleNotFound
}

// ---------- confirmation codes ----------

type fakeCodeRepo struct {
	codes []models.ConfirmationCode
}

func (r *fakeCodeRepo) CreateCode(_ *gorm.DB, code *models.ConfirmationCode) error {
	r.codes = append(r.codes, *code)
	return nil
}

func (r *fakeCodeRepo) ExistsValidCode(_ *gorm.DB, userID string, code int, now time.Time) (bool, error) {
	for _, c := range r.codes {
		if c.UserID == userID && c.Code == code && c.Status == models.ConfirmationCodeNew && c.ExpiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCodeRepo) MarkAllUsed(_ *gorm.DB, userID string) error {
	for i := range r.codes {
		if r.codes[i].UserID == userID {
			r.codes[i].Status = models.ConfirmationCodeUsed
		}
	}
	return nil
}

func (r *fakeCodeRepo) DeleteAllForUser(_ *gorm.DB, userID string) error {
	kept := r.codes[:0]
	for _, c := range r.codes {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	r.codes = kept
	return nil
}

func (r *fakeCodeRepo) DeleteStale(_ *gorm.DB, now time.Time) (int64, error) {
	var deleted int64
	kept := r.codes[:0]
	for _, c := range r.codes {
		if !c.ExpiresAt.After(now) || c.Status == models.ConfirmationCodeUsed {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	r.codes = kept
	return deleted, nil
}

// ---------- routines ----------

type fakeRoutineRepo struct {
	routines map[string]*models.Routine

	searchResult  []models.Routine
	lastPredicate repositories.RoutinePredicate
	lastPage      repositories.PageRequest
	searchCalls   int
	ranked        []string
	rankCalls     int

	log *[]string
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{routines: map[string]*models.Routine{}}
}

func (r *fakeRoutineRepo) add(routine *models.Routine) *models.Routine {
	if routine.ID == "" {
		routine.ID = uuid.NewString()
	}
	r.routines[routine.ID] = routine
	return routine
}

func (r *fakeRoutineRepo) CreateRoutine(_ *gorm.DB, routine *models.Routine) error {
	r.add(routine)
	return nil
}

func (r *fakeRoutineRepo) FindEnabledRoutineByID(_ *gorm.DB, id string) (*models.Routine, error) {
	if routine, ok := r.routines[id]; ok && routine.Enabled {
		return routine, nil
	}
	return nil, repositories.ErrRoutineNotFound
}

func (r *fakeRoutineRepo) FindRoutineByID(_ *gorm.DB, id string) (*models.Routine, error) {
	if routine, ok := r.routines[id]; ok {
		return routine, nil
	}
	return nil, repositories.ErrRoutineNotFound
}

func (r *fakeRoutineRepo) FindEnabledRoutinesByUser(_ *gorm.DB, userID string) ([]models.Routine, error) {
	var out []models.Routine
	for _, routine := range r.routines {
		if routine.UserID == userID && routine.Enabled {
			out = append(out, *routine)
		}
	}
	return out, nil
}

func (r *fakeRoutineRepo) UpdateRoutineName(_ *gorm.DB, id, name string) error {
	r.routines[id].Name = name
	return nil
}

func (r *fakeRoutineRepo) DisableRoutine(_ *gorm.DB, id string) error {
	routine, ok := r.routines[id]
	if !ok {
		return repositories.ErrRoutineNotFound
	}
	routine.Enabled = false
	return nil
}

func (r *fakeRoutineRepo) DeleteRoutine(_ *gorm.DB, id string) error {
	if r.log != nil {
		*r.log = append(*r.log, "routine")
	}
	if _, ok := r.routines[id]; !ok {
		return repositories.ErrRoutineNotFound
	}
	delete(r.routines, id)
	return nil
}

func (r *fakeRoutineRepo) SearchRoutines(_ *gorm.DB, predicate repositories.RoutinePredicate, page repositories.PageRequest) ([]models.Routine, error) {
	r.searchCalls++
	r.lastPredicate = predicate
	r.lastPage = page
	return r.searchResult, nil
}

func (r *fakeRoutineRepo) RankRoutinesByPopularity(_ *gorm.DB, ids []string) ([]string, error) {
	r.rankCalls++
	return r.ranked, nil
}

// ---------- entries ----------

type fakeEntryRepo struct {
	created   []models.RoutineEntry
	updated   []models.RoutineEntry
	deleted   []string
	updateErr error
	log       *[]string
}

func (r *fakeEntryRepo) CreateEntry(_ *gorm.DB, entry *models.RoutineEntry) error {
	r.created = append(r.created, *entry)
	return nil
}

func (r *fakeEntryRepo) UpdateEntry(_ *gorm.DB, entry *models.RoutineEntry) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = append(r.updated, *entry)
	return nil
}

func (r *fakeEntryRepo) DeleteEntry(_ *gorm.DB, entryID string) error {
	r.deleted = append(r.deleted, entryID)
	return nil
}

func (r *fakeEntryRepo) DeleteEntriesByRoutine(_ *gorm.DB, _ string) error {
	r.record("entries")
	return nil
}

func (r *fakeEntryRepo) DeleteEntriesByExercise(_ *gorm.DB, _ string) error {
	r.record("entries")
	return nil
}

func (r *fakeEntryRepo) record(step string) {
	if r.log != nil {
		*r.log = append(*r.log, step)
	}
}

// ---------- exercises ----------

type fakeExerciseRepo struct {
	exercises     map[string]*models.Exercise
	images        map[string][]models.ExerciseImage
	lookedUpIDs   []string
	createErr     error
	createdImages []models.ExerciseImage
}

func newFakeExerciseRepo(exercises ...*models.Exercise) *fakeExerciseRepo {
	r := &fakeExerciseRepo{
		exercises: map[string]*models.Exercise{},
		images:    map[string][]models.ExerciseImage{},
	}
	for _, e := range exercises {
		r.exercises[e.ID] = e
	}
	return r
}

func (r *fakeExerciseRepo) FindExercisesByName(_ *gorm.DB, name string) ([]models.Exercise, error) {
	var out []models.Exercise
	for _, e := range r.exercises {
		if e.Enabled && strings.Contains(strings.ToLower(e.Name), strings.ToLower(name)) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) FindEnabledExerciseByID(_ *gorm.DB, id string) (*models.Exercise, error) {
	if e, ok := r.exercises[id]; ok && e.Enabled {
		cp := *e
		return &cp, nil
	}
	return nil, repositories.ErrExerciseNotFound
}

func (r *fakeExerciseRepo) FindEnabledExercisesByIDs(_ *gorm.DB, ids []string) ([]models.Exercise, error) {
	r.lookedUpIDs = ids
	var out []models.Exercise
	for _, id := range ids {
		if e, ok := r.exercises[id]; ok && e.Enabled {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) FindExerciseByID(_ *gorm.DB, id string) (*models.Exercise, error) {
	if e, ok := r.exercises[id]; ok {
		return e, nil
	}
	return nil, repositories.ErrExerciseNotFound
}

func (r *fakeExerciseRepo) CreateExercise(_ *gorm.DB, exercise *models.Exercise) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.exercises[exercise.ID] = exercise
	return nil
}

func (r *fakeExerciseRepo) UpdateExercise(_ *gorm.DB, exercise *models.Exercise) error {
	r.exercises[exercise.ID] = exercise
	return nil
}

func (r *fakeExerciseRepo) DisableExercise(_ *gorm.DB, id string) error {
	e, ok := r.exercises[id]
	if !ok {
		return repositories.ErrExerciseNotFound
	}
	e.Enabled = false
	return nil
}

func (r *fakeExerciseRepo) DeleteExercise(_ *gorm.DB, id string) error {
	if _, ok := r.exercises[id]; !ok {
		return repositories.ErrExerciseNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r *fakeExerciseRepo) CreateExerciseImages(_ *gorm.DB, images []models.ExerciseImage) error {
	r.createdImages = append(r.createdImages, images...)
	return nil
}

func (r *fakeExerciseRepo) DeleteExerciseImages(_ *gorm.DB, exerciseID string) ([]models.ExerciseImage, error) {
	images := r.images[exerciseID]
	delete(r.images, exerciseID)
	return images, nil
}

// ---------- ratings ----------

type fakeRatingRepo struct {
	ratings map[string]*models.RoutineRating
	log     *[]string
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: map[string]*models.RoutineRating{}}
}

func (r *fakeRatingRepo) CreateRating(_ *gorm.DB, rating *models.RoutineRating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	r.ratings[rating.ID] = rating
	return nil
}

func (r *fakeRatingRepo) FindEnabledRatingByID(_ *gorm.DB, id string) (*models.RoutineRating, error) {
	if rating, ok := r.ratings[id]; ok && rating.Enabled {
		cp := *rating
		return &cp, nil
	}
	return nil, repositories.ErrRatingNotFound
}

func (r *fakeRatingRepo) ExistsEnabledRatingByAuthor(_ *gorm.DB, userID string) (bool, error) {
	for _, rating := range r.ratings {
		if rating.CreatedBy == userID && rating.Enabled {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRatingRepo) UpdateRating(_ *gorm.DB, rating *models.RoutineRating) error {
	cp := *rating
	r.ratings[rating.ID] = &cp
	return nil
}

func (r *fakeRatingRepo) FindEnabledRatingsByRoutine(_ *gorm.DB, routineID string) ([]models.RoutineRating, error) {
	var out []models.RoutineRating
	for _, rating := range r.ratings {
		if rating.RoutineID == routineID && rating.Enabled {
			out = append(out, *rating)
		}
	}
	return out, nil
}

func (r *fakeRatingRepo) DeleteRatingsByRoutine(_ *gorm.DB, _ string) error {
	if r.log != nil {
		*r.log = append(*r.log, "ratings")
	}
	return nil
}

// ---------- saved routines ----------

type savedKey struct {
	userID, routineID string
	listType          models.ListType
}

type fakeSavedRepo struct {
	saved map[savedKey]bool
	log   *[]string
}

func newFakeSavedRepo() *fakeSavedRepo {
	return &fakeSavedRepo{saved: map[savedKey]bool{}}
}

func (r *fakeSavedRepo) CreateSavedRoutine(_ *gorm.DB, saved *models.SavedRoutine) error {
	r.saved[savedKey{saved.UserID, saved.RoutineID, saved.ListType}] = true
	return nil
}

func (r *fakeSavedRepo) ExistsSavedRoutine(_ *gorm.DB, userID, routineID string, listType models.ListType) (bool, error) {
	return r.saved[savedKey{userID, routineID, listType}], nil
}

func (r *fakeSavedRepo) DeleteSavedRoutine(_ *gorm.DB, userID, routineID string, listType models.ListType) error {
	key := savedKey{userID, routineID, listType}
	if !r.saved[key] {
		return repositories.ErrSavedRoutineNotFound
	}
	delete(r.saved, key)
	return nil
}

func (r *fakeSavedRepo) FindRoutinesInList(_ *gorm.DB, userID string, listType models.ListType) ([]models.Routine, error) {
	var out []models.Routine
	for key := range r.saved {
		if key.userID == userID && key.listType == listType {
			out = append(out, models.Routine{BaseModel: models.BaseModel{ID: key.routineID}})
		}
	}
	return out, nil
}

func (r *fakeSavedRepo) DeleteSavedRoutinesByRoutine(_ *gorm.DB, _ string) error {
	if r.log != nil {
		*r.log = append(*r.log, "saved")
	}
	return nil
}

// ---------- images and mail ----------

type fakeImageService struct {
	stored   []models.ExerciseImage
	storeErr error
	deleted  []models.ExerciseImage
}

func (s *fakeImageService) StoreExerciseImages(_ context.Context, exerciseID string, files []*multipart.FileHeader) ([]models.ExerciseImage, error) {
	if s.storeErr != nil {
		return nil, s.storeErr
	}
	out := make([]models.ExerciseImage, 0, len(files))
	for _, f := range files {
		out = append(out, models.ExerciseImage{
			ExerciseID: exerciseID,
			URL:        "/uploads/" + f.Filename,
			StorageKey: "exercises/" + exerciseID + "/" + f.Filename,
		})
	}
	s.stored = append(s.stored, out...)
	return out, nil
}

func (s *fakeImageService) DeleteStoredImages(_ context.Context, images []models.ExerciseImage) {
	s.deleted = append(s.deleted, images...)
}

type sentMail struct {
	to       []string
	subject  string
	template string
	data     email.TemplateData
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(*email.Email) error { return m.err }

func (m *fakeMailer) SendWithTemplate(name string, data email.TemplateData, msg *email.Email) error {
	return m.SendTemplate(msg.To, msg.Subject, name, data)
}

func (m *fakeMailer) SendTemplate(to []string, subject, name string, data email.TemplateData) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, template: name, data: data})
	return nil
}

func (m *fakeMailer) Validate() error { return nil }
func (m *fakeMailer) Close() error    { return nil }
