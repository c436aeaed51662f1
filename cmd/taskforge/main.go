package main

import "taskforge/internal/app"

// @title           TaskForge API
// @version         1.0
// @description     Task management backend: auth, tasks, comments, file attachments and per-user analytics.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

func main() {
	app.Run()
}
