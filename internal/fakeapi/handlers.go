package fakeapi

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jask/fundadmin/internal/repository"
)

type projectInput struct {
	ID           repository.ID            `json:"id"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	TargetAmount repository.Money         `json:"target_amount"`
	Status       repository.ProjectStatus `json:"status"`
	image        string
}

type decisionInput struct {
	AccountID repository.ID       `json:"account_id"`
	Provider  repository.Provider `json:"provider"`
	Action    string              `json:"action"`
}

func ack(c *gin.Context, ok bool, msg string) {
	c.JSON(http.StatusOK, repository.Ack{Success: ok, Message: msg})
}

func (b *Backend) listProjects(c *gin.Context) {
	c.JSON(http.StatusOK, b.Projects())
}

func (b *Backend) getProject(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		c.JSON(http.StatusOK, b.Projects())
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, []repository.Project{})
		return
	}
	b.mu.Lock()
	asArray := b.detailAsArray
	b.mu.Unlock()
	for _, p := range b.Projects() {
		if p.ID == repository.ID(id) {
			if asArray {
				c.JSON(http.StatusOK, []repository.Project{p})
				return
			}
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusOK, []repository.Project{})
}

func (b *Backend) createProject(c *gin.Context) {
	in, err := b.bindProject(c)
	if err != nil {
		ack(c, false, "Invalid request: "+err.Error())
		return
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		ack(c, false, "Title and description are required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.projects {
		if strings.EqualFold(p.Title, in.Title) {
			c.JSON(http.StatusOK, repository.Ack{Success: false, Message: "Duplicate title"})
			return
		}
	}
	b.addProjectLocked(repository.Project{
		Title:        in.Title,
		Description:  in.Description,
		TargetAmount: in.TargetAmount,
		Status:       repository.ProjectActive,
		Image:        in.image,
	})
	ack(c, true, "")
}

func (b *Backend) updateProject(c *gin.Context) {
	in, err := b.bindProject(c)
	if err != nil {
		ack(c, false, "Invalid request: "+err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.projects {
		if b.projects[i].ID != in.ID {
			continue
		}
		p := &b.projects[i]
		p.Title = in.Title
		p.Description = in.Description
		p.TargetAmount = in.TargetAmount
		p.Status = in.Status.Normalize()
		if in.image != "" {
			p.Image = in.image
		}
		ack(c, true, "")
		return
	}
	ack(c, false, "Project not found")
}

// bindProject reads either a JSON or a multipart body.
func (b *Backend) bindProject(c *gin.Context) (projectInput, error) {
	var in projectInput
	form := map[string]string{}
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form["_encoding"] = "multipart"
		for _, k := range []string{"id", "title", "description", "target_amount", "status"} {
			if v, ok := c.GetPostForm(k); ok {
				form[k] = v
			}
		}
		if id := form["id"]; id != "" {
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return in, err
			}
			in.ID = repository.ID(n)
		}
		in.Title = form["title"]
		in.Description = form["description"]
		in.TargetAmount = repository.NewMoney(form["target_amount"])
		in.Status = repository.ProjectStatus(form["status"])
		if fh, err := c.FormFile("image"); err == nil {
			in.image = "uploads/" + filepath.Base(fh.Filename)
			form["_image"] = fh.Filename
		}
	} else {
		form["_encoding"] = "json"
		if err := c.ShouldBindJSON(&in); err != nil {
			return in, err
		}
		form["id"] = in.ID.String()
		form["title"] = in.Title
		form["description"] = in.Description
		form["target_amount"] = in.TargetAmount.String()
		form["status"] = string(in.Status)
	}
	b.mu.Lock()
	b.lastForm[c.Request.URL.Path] = form
	b.mu.Unlock()
	return in, nil
}

func (b *Backend) listDonations(c *gin.Context) {
	b.mu.Lock()
	out := append([]repository.Donation{}, b.donations...)
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) listTopUps(c *gin.Context) {
	b.mu.Lock()
	out := append([]repository.WalletTransaction{}, b.topups...)
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) listPending(c *gin.Context) {
	b.mu.Lock()
	out := []repository.PendingAccount{}
	for _, a := range b.accounts {
		if a.Status == repository.AccountPending {
			out = append(out, a)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) decideAccount(c *gin.Context) {
	var in decisionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		ack(c, false, "Invalid request")
		return
	}
	var status repository.AccountStatus
	switch in.Action {
	case string(repository.AccountApproved):
		status = repository.AccountApproved
	case string(repository.AccountRejected):
		status = repository.AccountRejected
	default:
		ack(c, false, "Invalid action")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.accounts {
		a := &b.accounts[i]
		if a.ID != in.AccountID || a.Provider != in.Provider {
			continue
		}
		if a.Status != repository.AccountPending {
			ack(c, false, "Account already processed")
			return
		}
		a.Status = status
		ack(c, true, "Account "+string(status)+" successfully")
		return
	}
	ack(c, false, "Account not found")
}
