package tui

import (
	"errors"

	"github.com/jask/fundadmin/internal/repository"
	"github.com/jask/fundadmin/internal/service"
)

type statusMsg string

type errMsg struct{ error }

type projectLoadedMsg struct {
	id      repository.ID
	project repository.Project
	err     error
}

type projectSavedMsg struct {
	form int
	edit bool
	ack  repository.Ack
	err  error
}

type decisionMsg struct {
	id     repository.ID
	action service.Action
	ack    repository.Ack
	err    error
}

// userMessage turns any error from the lower layers into a status line.
func userMessage(err error) string {
	if errors.Is(err, repository.ErrProjectNotFound) {
		return "Project not found"
	}
	return service.UserMessage(err)
}
