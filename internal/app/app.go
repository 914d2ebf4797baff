package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/pollbox/internal/auth"
	"github.com/abrezinsky/pollbox/internal/cache"
	"github.com/abrezinsky/pollbox/internal/chart"
	"github.com/abrezinsky/pollbox/internal/config"
	"github.com/abrezinsky/pollbox/internal/handlers"
	"github.com/abrezinsky/pollbox/internal/logger"
	"github.com/abrezinsky/pollbox/internal/repository"
	"github.com/abrezinsky/pollbox/internal/services"
	"github.com/abrezinsky/pollbox/internal/session"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
	charts   cache.Store
	baseURL  string
	server   *http.Server
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	charts, err := newChartCache(log, cfg.RedisURL)
	if err != nil {
		repo.Close()
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		// Voting links are scanned from phones, so prefer a LAN address
		baseURL = fmt.Sprintf("http://%s:%d", getPreferredIP(realNetworkProvider{}), cfg.Port)
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = auth.GenerateToken(32)
		log.Warn("No session secret configured, voter sessions will not survive a restart")
	}
	sessions := session.NewManager(secret)
	sessions.SetSecure(strings.HasPrefix(baseURL, "https://"))

	renderer := chart.NewRenderer(log, charts)
	polls := services.NewPollService(log, repo, renderer, baseURL)
	h := handlers.New(polls, sessions, session.NewFlashStore(), log, cfg.Location())
	h.AddHealthCheck("database", repo)
	if p, ok := charts.(handlers.Pinger); ok {
		h.AddHealthCheck("chart_cache", p)
	}

	return &App{
		log:      log,
		cfg:      cfg,
		handlers: h,
		repo:     repo,
		charts:   charts,
		baseURL:  baseURL,
	}, nil
}

// newChartCache connects to Redis when an address is configured and
// otherwise keeps rendered charts in process memory.
func newChartCache(log logger.Logger, redisURL string) (cache.Store, error) {
	if redisURL == "" {
		log.Info("Chart cache", "backend", "memory")
		return cache.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := cache.Dial(ctx, redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect chart cache: %w", err)
	}
	log.Info("Chart cache", "backend", "redis")
	return store, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// BaseURL returns the public URL used in voting links
func (a *App) BaseURL() string {
	return a.baseURL
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.log.Warn("HTTP server shutdown failed", "error", err)
		}
	}
	if closer, ok := a.charts.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.log.Warn("Failed to close chart cache", "error", err)
		}
	}
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
		a.repo = nil
	}
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.log.Info("Server starting", "addr", addr, "url", a.baseURL)
	err := a.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for LAN access, preferring
// private ranges. Falls back to localhost.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
