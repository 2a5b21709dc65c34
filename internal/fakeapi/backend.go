// Package fakeapi serves the admin endpoints from memory. Tests run it
// behind httptest; cmd/fundadmin-mock serves it for local development.
package fakeapi

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jask/fundadmin/internal/repository"
)

type override struct {
	status int
	body   string
}

// Backend holds the in-memory data behind the fake endpoints.
type Backend struct {
	mu        sync.Mutex
	projects  []repository.Project
	donations []repository.Donation
	topups    []repository.WalletTransaction
	accounts  []repository.PendingAccount
	nextID    repository.ID

	// LogRequests adds gin's request logger.
	LogRequests bool
	// CORSOrigin, when set, is echoed in Access-Control-Allow-Origin.
	CORSOrigin string

	detailAsArray bool

	overrides map[string]override
	holds     map[string]chan struct{}
	calls     map[string]int
	lastForm  map[string]map[string]string
}

func New() *Backend {
	return &Backend{
		nextID:    1,
		overrides: map[string]override{},
		holds:     map[string]chan struct{}{},
		calls:     map[string]int{},
		lastForm:  map[string]map[string]string{},
	}
}

func (b *Backend) AddProject(p repository.Project) repository.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addProjectLocked(p)
}

func (b *Backend) addProjectLocked(p repository.Project) repository.Project {
	if p.ID == 0 {
		p.ID = b.nextID
	}
	if p.ID >= b.nextID {
		b.nextID = p.ID + 1
	}
	if p.Status == "" {
		p.Status = repository.ProjectActive
	}
	b.projects = append(b.projects, p)
	return p
}

func (b *Backend) AddDonation(d repository.Donation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.donations = append(b.donations, d)
}

func (b *Backend) AddTopUp(t repository.WalletTransaction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topups = append(b.topups, t)
}

func (b *Backend) AddAccount(a repository.PendingAccount) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a.Status == "" {
		a.Status = repository.AccountPending
	}
	b.accounts = append(b.accounts, a)
}

func (b *Backend) Projects() []repository.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]repository.Project(nil), b.projects...)
}

func (b *Backend) Account(id repository.ID) (repository.PendingAccount, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return repository.PendingAccount{}, false
}

// SetDetailAsArray makes the single-project endpoint answer [Project]
// instead of Project.
func (b *Backend) SetDetailAsArray(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detailAsArray = v
}

// Override makes path answer status and the raw body until cleared with
// an empty body and zero status.
func (b *Backend) Override(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 && body == "" {
		delete(b.overrides, path)
		return
	}
	b.overrides[path] = override{status: status, body: body}
}

// Hold blocks requests to path until the returned func is called.
func (b *Backend) Hold(path string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.holds[path] = ch
	b.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.holds, path)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Calls counts requests received for path.
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// LastForm returns the fields of the last mutation received on path,
// plus "_encoding" (json or multipart) and "_image" when a file was sent.
func (b *Backend) LastForm(path string) map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := map[string]string{}
	for k, v := range b.lastForm[path] {
		out[k] = v
	}
	return out
}

// Handler builds the gin engine.
func (b *Backend) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	if b.LogRequests {
		r.Use(gin.Logger())
	}
	if b.CORSOrigin != "" {
		r.Use(b.cors)
	}
	r.Use(b.intercept)

	r.GET(repository.PathListProjects, b.listProjects)
	r.GET(repository.PathGetProject, b.getProject)
	r.POST(repository.PathCreateProject, b.createProject)
	r.POST(repository.PathCreateLegacy, b.createProject)
	r.POST(repository.PathUpdateProject, b.updateProject)
	r.GET(repository.PathListDonations, b.listDonations)
	r.GET(repository.PathListTopUps, b.listTopUps)
	r.GET(repository.PathListPending, b.listPending)
	r.POST(repository.PathDecideAccount, b.decideAccount)
	return r
}

// intercept records calls, applies holds and serves overrides.
func (b *Backend) intercept(c *gin.Context) {
	path := c.Request.URL.Path
	b.mu.Lock()
	b.calls[path]++
	hold := b.holds[path]
	ov, hasOverride := b.overrides[path]
	b.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	if hasOverride {
		status := ov.status
		if status == 0 {
			status = http.StatusOK
		}
		ct := "text/html; charset=utf-8"
		if trimmed := strings.TrimSpace(ov.body); strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			ct = "application/json"
		}
		c.Data(status, ct, []byte(ov.body))
		c.Abort()
		return
	}
	c.Next()
}

func (b *Backend) cors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", b.CORSOrigin)
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
