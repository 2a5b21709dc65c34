package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jask/fundadmin/internal/gateway"
	"github.com/jask/fundadmin/internal/repository"
)

// Encoding selects how project forms go over the wire.
type Encoding string

const (
	EncodingAuto      Encoding = "auto"
	EncodingJSON      Encoding = "json"
	EncodingMultipart Encoding = "multipart"
)

// ParseEncoding maps a config value to an Encoding, defaulting to auto.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(s))) {
	case "", EncodingAuto:
		return EncodingAuto, nil
	case EncodingJSON:
		return EncodingJSON, nil
	case EncodingMultipart:
		return EncodingMultipart, nil
	}
	return "", fmt.Errorf("unknown submit encoding %q (want auto, json or multipart)", s)
}

// ProjectForm is the editable state of the add/edit screens. Values stay
// raw strings until submission.
type ProjectForm struct {
	ID           repository.ID
	Title        string
	Description  string
	TargetAmount string
	Status       repository.ProjectStatus
	ImagePath    string
}

// FormFromProject seeds an edit form from the fetched project.
func FormFromProject(p repository.Project) ProjectForm {
	return ProjectForm{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		TargetAmount: p.TargetAmount.String(),
		Status:       p.Status.Normalize(),
	}
}

// Valid reports whether the required fields are filled in.
func (f ProjectForm) Valid() bool {
	return strings.TrimSpace(f.Title) != "" &&
		strings.TrimSpace(f.Description) != "" &&
		strings.TrimSpace(f.TargetAmount) != ""
}

func (f ProjectForm) Validate() error {
	if !f.Valid() {
		return &SubmitError{Kind: KindValidation, Message: msgValidation}
	}
	return nil
}

// Target parses TargetAmount; non-numeric input reads as 0.
func (f ProjectForm) Target() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(f.TargetAmount), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (f ProjectForm) hasImage() bool { return strings.TrimSpace(f.ImagePath) != "" }

type createBody struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TargetAmount float64 `json:"target_amount"`
}

type updateBody struct {
	ID           repository.ID            `json:"id"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	TargetAmount float64                  `json:"target_amount"`
	Status       repository.ProjectStatus `json:"status"`
}

// ProjectService creates and updates projects.
type ProjectService struct {
	Submitter  *Submitter
	CreatePath string
	UpdatePath string
	Encoding   Encoding
	Log        *log.Logger
}

func (s *ProjectService) Create(ctx context.Context, f ProjectForm) (repository.Ack, error) {
	if err := f.Validate(); err != nil {
		return repository.Ack{}, err
	}
	target := s.target(f)
	var body gateway.Body = gateway.JSONBody{Value: createBody{Title: f.Title, Description: f.Description, TargetAmount: target}}
	if s.multipart(f) {
		mb, err := s.multipartBody(f, []gateway.Field{
			{Name: "title", Value: f.Title},
			{Name: "description", Value: f.Description},
			{Name: "target_amount", Value: formatAmount(target)},
		})
		if err != nil {
			return repository.Ack{}, err
		}
		body = mb
	}
	ack, err := s.Submitter.Submit(ctx, s.createPath(), body, "Failed to add project")
	if err != nil {
		return ack, err
	}
	ack.Message = messageOr(ack.Message, "Project Added Successfully!")
	return ack, nil
}

func (s *ProjectService) Update(ctx context.Context, f ProjectForm) (repository.Ack, error) {
	if err := f.Validate(); err != nil {
		return repository.Ack{}, err
	}
	target := s.target(f)
	status := f.Status.Normalize()
	var body gateway.Body = gateway.JSONBody{Value: updateBody{ID: f.ID, Title: f.Title, Description: f.Description, TargetAmount: target, Status: status}}
	if s.multipart(f) {
		mb, err := s.multipartBody(f, []gateway.Field{
			{Name: "id", Value: f.ID.String()},
			{Name: "title", Value: f.Title},
			{Name: "description", Value: f.Description},
			{Name: "target_amount", Value: formatAmount(target)},
			{Name: "status", Value: string(status)},
		})
		if err != nil {
			return repository.Ack{}, err
		}
		body = mb
	}
	path := s.UpdatePath
	if path == "" {
		path = repository.PathUpdateProject
	}
	ack, err := s.Submitter.Submit(ctx, path, body, "Update failed")
	if err != nil {
		return ack, err
	}
	ack.Message = messageOr(ack.Message, "Project updated successfully")
	return ack, nil
}

func (s *ProjectService) createPath() string {
	if s.CreatePath == "" {
		return repository.PathCreateProject
	}
	return s.CreatePath
}

func (s *ProjectService) multipart(f ProjectForm) bool {
	switch s.Encoding {
	case EncodingMultipart:
		return true
	case EncodingJSON:
		return false
	default:
		return f.hasImage()
	}
}

func (s *ProjectService) target(f ProjectForm) float64 {
	v, ok := f.Target()
	if !ok && s.Log != nil {
		s.Log.Printf("warn: target amount %q is not numeric, sending 0", f.TargetAmount)
	}
	return v
}

func (s *ProjectService) multipartBody(f ProjectForm, fields []gateway.Field) (gateway.MultipartBody, error) {
	mb := gateway.MultipartBody{Fields: fields}
	if !f.hasImage() {
		return mb, nil
	}
	file, err := gateway.FileFromPath("image", strings.TrimSpace(f.ImagePath))
	if err != nil {
		return mb, &SubmitError{Kind: KindValidation, Message: "Could not read the selected image.", Err: err}
	}
	mb.Files = append(mb.Files, file)
	return mb, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
