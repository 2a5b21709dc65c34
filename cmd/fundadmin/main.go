package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fundadmin/internal/config"
	"github.com/jask/fundadmin/internal/gateway"
	"github.com/jask/fundadmin/internal/repository"
	"github.com/jask/fundadmin/internal/service"
	"github.com/jask/fundadmin/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		log.Fatalf("mkdir log dir: %v", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.Path, "fundadmin")
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer logFile.Close()

	encoding, err := service.ParseEncoding(cfg.API.SubmitEncoding)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gw, err := gateway.New(cfg.API.BaseURL, gateway.WithTimeout(cfg.API.Timeout), gateway.WithLogger(log.Default()))
	if err != nil {
		log.Fatalf("gateway: %v", err)
	}
	log.Printf("using backend %s", gw.BaseURL())

	// repositories
	projectRepo := repository.NewProjectRepo(gw)
	donationRepo := repository.NewDonationRepo(gw)
	topUpRepo := repository.NewTopUpRepo(gw)
	accountRepo := repository.NewAccountRepo(gw)

	// services
	submitter := &service.Submitter{Gateway: gw}
	projects := &service.ProjectService{
		Submitter:  submitter,
		CreatePath: cfg.API.CreatePath,
		UpdatePath: repository.PathUpdateProject,
		Encoding:   encoding,
		Log:        log.Default(),
	}
	reviewer := &service.AccountReviewer{Submitter: submitter, Path: repository.PathDecideAccount}

	p := tea.NewProgram(tui.New(ctx, cfg,
		tui.Repos{Projects: projectRepo, Donations: donationRepo, TopUps: topUpRepo, Accounts: accountRepo},
		tui.Services{Projects: projects, Reviewer: reviewer},
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
