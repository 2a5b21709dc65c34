package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jask/fundadmin/internal/config"
	"github.com/jask/fundadmin/internal/fakeapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	addr := flag.String("addr", cfg.Mock.Addr, "listen address")
	origin := flag.String("cors-origin", "", "allow browser calls from this origin")
	initConfig := flag.Bool("init-config", false, "write a config file pointing the client at this server, then exit")
	quiet := flag.Bool("quiet", false, "disable request logging")
	flag.Parse()

	if *initConfig {
		cfg.API.BaseURL = "http://" + dialable(*addr)
		cfg.Mock.Addr = *addr
		if err := config.Save(cfg); err != nil {
			log.Fatalf("save config: %v", err)
		}
		log.Printf("wrote %s (api.base_url = %s)", config.Path(), cfg.API.BaseURL)
		return
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	backend := fakeapi.NewSeeded()
	backend.LogRequests = !*quiet
	backend.CORSOrigin = *origin

	srv := &http.Server{
		Addr:              *addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("mock backend listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("warn: shutdown: %v", err)
	}
}

// dialable turns a listen address like ":8080" into one a client can reach.
func dialable(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	return addr
}
