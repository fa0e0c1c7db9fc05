package ui

import (
	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/tasks"
)

// progressUpdateMsg carries one engine progress event into the Update loop.
type progressUpdateMsg tasks.ProgressUpdate

// runCompleteMsg signals the end of the batch, successful or not.
type runCompleteMsg struct {
	record *models.RunRecord
	err    error
}
