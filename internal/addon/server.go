package addon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"knaben/internal/auth"
	"knaben/internal/config"
	"knaben/internal/history"
	"knaben/internal/streams"
)

const historyWriteTimeout = 3 * time.Second

// Resolver is the part of streams.Aggregator the server needs.
type Resolver interface {
	Resolve(ctx context.Context, req streams.Request) streams.Result
}

type Server struct {
	cfg      config.Config
	resolver Resolver
	history  history.Store
	auth     *auth.Service
	log      zerolog.Logger
}

// New wires the HTTP surface. Admin routes exist only when cfg carries
// both the signing secret and the password hash.
func New(cfg config.Config, resolver Resolver, store history.Store, log zerolog.Logger) *Server {
	if store == nil {
		store = history.Nop{}
	}
	s := &Server{
		cfg:      cfg,
		resolver: resolver,
		history:  store,
		log:      log.With().Str("component", "addon").Logger(),
	}
	if cfg.AdminEnabled() {
		s.auth = auth.NewService(cfg.Admin.Secret, cfg.Admin.PasswordHash)
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/manifest.json", s.handleManifest)
	r.Get("/stream/{type}/{id}", s.handleStream)

	if s.auth != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.With(s.auth.RequireRole(auth.RoleAdmin)).Get("/history", s.handleHistory)
		})
	}
	return r
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newManifest(s.cfg.ProviderLabel))
}

type streamsResponse struct {
	Streams []streams.Stream `json:"streams"`
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	id := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	id = strings.TrimSuffix(id, ".json")

	req, ok := streams.ParseRequest(kind, id)
	if !ok {
		s.log.Debug().Str("type", kind).Str("id", id).Msg("ignoring unsupported id")
		writeJSON(w, http.StatusOK, streamsResponse{Streams: []streams.Stream{}})
		return
	}

	ctx := r.Context()
	if s.cfg.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ResolveTimeout)
		defer cancel()
	}
	res := s.resolver.Resolve(ctx, req)

	s.record(r.Context(), req, res)
	out := res.Streams
	if out == nil {
		out = []streams.Stream{}
	}
	writeJSON(w, http.StatusOK, streamsResponse{Streams: out})
}

func (s *Server) record(ctx context.Context, req streams.Request, res streams.Result) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()
	rec := history.NewRecord(string(req.Kind), req.ID(), res.Title, res.QueriesRun, len(res.Streams), res.Duration)
	if err := s.history.Save(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("id", rec.ContentID).Msg("history write failed")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid body")
		return
	}
	token, expires, err := s.auth.Login(body.Password)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"expires_at":   expires.UTC(),
	})
}

type historyEntry struct {
	history.Record
	DurationMS int64 `json:"duration_ms"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	recs, err := s.history.Recent(r.Context(), history.ClampLimit(limit))
	if err != nil {
		s.log.Error().Err(err).Msg("history read failed")
		errorJSON(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	out := make([]historyEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, historyEntry{Record: rec, DurationMS: rec.Duration.Milliseconds()})
	}
	writeJSON(w, http.StatusOK, out)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
