// Package api provides the HTTP and WebSocket surface of Truffle.
//
// It exposes endpoints for processing conversational turns, inspecting
// session history, and managing user profiles. Speech capture and audio
// playback stay with the clients; this server only exchanges text and
// voice-delivery parameters.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/config"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/emotion"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/flow"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/genai"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/question"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/session"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/store"
)

// DefaultAddr is the default API listen address.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr        string
	ContentFile string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithContentFile sets the path of the YAML content overlay.
func WithContentFile(path string) Option {
	return func(o *Opts) { o.ContentFile = path }
}

// Server wires the orchestrator and session manager behind HTTP handlers.
type Server struct {
	addr     string
	orch     *flow.Orchestrator
	sessions *session.Manager
}

// NewServer creates a server over an already-assembled pipeline.
func NewServer(addr string, orch *flow.Orchestrator, sessions *session.Manager) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{addr: addr, orch: orch, sessions: sessions}
}

// Run assembles all modules from their options and serves the API. It blocks
// until the listener fails.
func Run(storeOpts []store.Option, genaiOpts []genai.Option, apiOpts []Option) error {
	var cfg Opts
	for _, opt := range apiOpts {
		opt(&cfg)
	}

	st, err := store.New(storeOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	genaiClient, err := genai.NewClient(genaiOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize GenAI client: %w", err)
	}

	lexicon := emotion.DefaultLexicon()
	bank := question.DefaultBank()
	var crisisExtra []string

	if cfg.ContentFile != "" {
		overlay, err := config.Load(cfg.ContentFile)
		if err != nil {
			return fmt.Errorf("failed to load content overlay: %w", err)
		}
		overlay.ApplyLexicon(lexicon)
		overlay.ApplyBank(bank)
		crisisExtra = overlay.Crisis.Patterns
	}

	sessions := session.NewManager(st)
	orch := flow.NewOrchestrator(
		emotion.NewClassifier(lexicon),
		emotion.NewCrisisDetector(crisisExtra...),
		question.NewEngine(bank),
		sessions,
		genaiClient,
	)

	server := NewServer(cfg.Addr, orch, sessions)
	return server.Serve()
}

// Serve registers the routes and listens. It blocks.
func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/sessions", s.createSessionHandler)
	mux.HandleFunc("/turn", s.turnHandler)
	mux.HandleFunc("/history", s.historyHandler)
	mux.HandleFunc("/profile", s.profileHandler)
	mux.HandleFunc("/ws", s.wsHandler)

	slog.Info("Truffle API listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, mux)
}
