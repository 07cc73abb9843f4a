package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ExerciseHandler     *ExerciseHandler
	RoutineHandler      *RoutineHandler
	RoutineEntryHandler *RoutineEntryHandler
	RatingHandler       *RatingHandler
	AdminHandler        *AdminHandler
}
