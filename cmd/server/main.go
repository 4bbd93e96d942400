package main

import (
	"os"

	"vectorchat/internal/app"
)

// @title           vectorchat API
// @version         1.0
// @description     Per-session conversational actor backend with streaming replies and best-effort persistence fan-out.
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
