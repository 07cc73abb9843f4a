// @title           Workout Scheduler API
// @version         1.0
// @description     API для составления, поиска и оценки программ тренировок.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "workout_scheduler/internal/app"

func main() {
	app.Run()
}
