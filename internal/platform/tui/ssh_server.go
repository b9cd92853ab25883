// Package tui provides the Bubble Tea front-end for samegame, including SSH
// server support via Wish. All rules live in the samegame packages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/samegame/internal/games/samegame/core"
	"github.com/vovakirdan/samegame/internal/games/samegame/stages"
	"github.com/vovakirdan/samegame/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.samegame/host_key.
	HostKeyPath string

	// DBPath is the path to the results database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Stages are offered in the menu of every session.
	Stages []stages.Stage

	// RandomWidth, RandomHeight and RandomColors shape the random board entry.
	// The entry is hidden when RandomColors is empty.
	RandomWidth  int
	RandomHeight int
	RandomColors []core.Color

	// BoosterMultiplier is passed to every game session.
	BoosterMultiplier float64

	// Logger receives server events. Nil means a stderr logger.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":23234",
		DBPath:       "~/.samegame/scores.db",
		IdleTimeout:  30 * time.Minute,
		RandomWidth:  10,
		RandomHeight: 8,
		RandomColors: []core.Color{core.ColorRed, core.ColorGreen, core.ColorBlue, core.ColorYellow},
	}
}

// SSHServer serves the stage picker and game to every SSH client.
// All clients share one results database.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int64
}

// NewSSHServer prepares the host key directory, opens the results database
// and builds the wish server. A database that cannot be opened is logged
// and play continues without saving.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	srv := &SSHServer{config: cfg, logger: logger.WithPrefix("samegame-ssh")}

	hostKeyPath, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	if store, err := storage.Open(cfg.DBPath); err != nil {
		srv.logger.Warn("results will not be saved", "db", cfg.DBPath, "error", err)
	} else {
		srv.store = store
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.trackSessions,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// resolveHostKey returns the host key path, defaulting to ~/.samegame/host_key,
// and makes sure its directory exists. Wish generates the key on first start.
func resolveHostKey(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".samegame", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// teaHandler starts a menu session sized to the client's terminal.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		wish.Fatalln(sess, "samegame needs an interactive terminal, try: ssh -t")
		return nil, nil
	}

	model := NewSessionModel(s.config, s.store, s.logger.With("user", sess.User()))
	model.resize(pty.Window.Width, pty.Window.Height)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// trackSessions logs connects and disconnects with the number of open sessions.
func (s *SSHServer) trackSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		started := time.Now()
		n := s.active.Add(1)
		s.logger.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr().String(), "active", n)

		next(sess)

		n = s.active.Add(-1)
		s.logger.Info("session ended",
			"user", sess.User(),
			"duration", time.Since(started).Round(time.Second),
			"active", n,
		)
	}
}

// ListenAndServe accepts connections until ctx is done or the listener
// fails, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "stages", len(s.config.Stages))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down", "active", s.active.Load())
		return s.Shutdown()
	case err := <-errCh:
		s.closeStore()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops accepting connections, waits up to ten seconds for open
// sessions, and closes the database.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("closing results database", "error", err)
		}
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// ActiveSessions returns the number of connected clients.
func (s *SSHServer) ActiveSessions() int64 {
	return s.active.Load()
}

// sessionScreen is the screen a SessionModel is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
)

// SessionModel manages the full session flow: menu -> stage -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	config   SSHServerConfig
	store    *storage.Store
	logger   *log.Logger
	screen   sessionScreen
	menu     MenuModel
	game     Model
	scores   ScoreboardModel
	width    int
	height   int
	quitting bool
	seedFn   func() int64
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := SessionModel{
		config: cfg,
		store:  store,
		logger: logger,
		width:  80,
		height: 24,
		seedFn: func() int64 { return time.Now().UnixNano() },
	}
	m.menu = m.newMenu()
	return m
}

// resize records the terminal size for the session and its menu.
func (m *SessionModel) resize(width, height int) {
	m.width, m.height = width, height
	m.menu.width, m.menu.height = width, height
}

// newMenu builds a fresh stage picker with current best scores.
func (m SessionModel) newMenu() MenuModel {
	var random stages.Stage
	if len(m.config.RandomColors) > 0 {
		random = stages.Random(m.config.RandomWidth, m.config.RandomHeight, m.config.RandomColors, 0)
	}
	menu := NewMenuModel(m.config.Stages, random, m.store)
	menu.width, menu.height = m.width, m.height
	return menu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	// Check if user quit
	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.scores = NewScoreboardModel(m.store, ScoreboardEntries(m.config.Stages), m.width, m.height)
		m.screen = screenScores
		return m, m.scores.Init()
	}

	// Check if a stage was selected
	if selected := m.menu.Selected(); selected != nil {
		stage := selected.Stage
		seed := stage.Seed
		if stage.ID == stages.RandomStageID {
			seed = m.seedFn()
		}

		game, err := NewModel(stage, GameOptions{
			Store:             m.store,
			Logger:            m.logger,
			Seed:              seed,
			BoosterMultiplier: m.config.BoosterMultiplier,
			Width:             m.width,
			Height:            m.height,
		})
		if err != nil {
			m.logger.Error("cannot start stage", "stage", stage.ID, "error", err)
			m.menu = m.newMenu()
			return m, nil
		}
		m.logger.Info("stage started", "stage", stage.ID, "seed", seed)

		m.game = game
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	// Back to the stage menu
	if m.game.IsGoingBack() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	// Check if user quit entirely
	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is open.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scores = sb
	}

	if m.scores.IsGoingBack() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}
