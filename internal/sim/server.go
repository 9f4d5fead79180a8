package sim

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"wordle-agent/internal/entity"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

//go:embed assets/index.html
var indexHTML []byte

// Server serves the game page and its JSON API.
type Server struct {
	r             *chi.Mux
	store         *Store
	defaultAnswer string
	log           zerolog.Logger
}

// NewServer wires the router. defaultAnswer is used when a client does not ask
// for a specific answer; empty means random.
func NewServer(store *Store, defaultAnswer string, log zerolog.Logger) *Server {
	s := &Server{
		r:             chi.NewRouter(),
		store:         store,
		defaultAnswer: defaultAnswer,
		log:           log.With().Str("component", "sim-http").Logger(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(hlog.NewHandler(s.log))
	s.r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("took", d).
			Msg("request")
	}))

	s.r.Get("/", s.handleIndex)
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	s.r.Route("/api/games", func(r chi.Router) {
		r.Post("/", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/guesses", s.handleGuess)
	})

	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.store.Words().Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "not_found"})
	})
	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

type newGameReq struct {
	Answer string `json:"answer"`
}

type newGameRes struct {
	ID   string `json:"id"`
	Rows int    `json:"rows"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Answer == "" {
		req.Answer = s.defaultAnswer
	}

	g, err := s.store.Create(req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	hlog.FromRequest(r).Info().Str("game", g.ID).Msg("🎮 new game")
	writeJSON(w, http.StatusCreated, newGameRes{ID: g.ID, Rows: g.Rows})
}

type guessReq struct {
	Guess string `json:"guess"`
}

type guessRes struct {
	Result string   `json:"result"` // cpaaa
	Marks  []string `json:"marks"`  // correct|present|absent
	State  State    `json:"state"`
	Answer string   `json:"answer,omitempty"` // only once the game is lost
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json"})
		return
	}

	id := chi.URLParam(r, "id")
	result, state, err := s.store.Guess(id, req.Guess)
	if err != nil {
		writeError(w, err)
		return
	}

	res := guessRes{Result: result.String(), Marks: markNames(result), State: state}
	if state == StateLost {
		if g, err := s.store.Snapshot(id); err == nil {
			res.Answer = g.Answer
		}
	}
	writeJSON(w, http.StatusOK, res)
}

type guessView struct {
	Word   string `json:"word"`
	Result string `json:"result"`
}

type gameRes struct {
	ID      string      `json:"id"`
	Rows    int         `json:"rows"`
	State   State       `json:"state"`
	Guesses []guessView `json:"guesses"`
	Answer  string      `json:"answer,omitempty"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	res := gameRes{ID: g.ID, Rows: g.Rows, State: g.State(), Guesses: []guessView{}}
	for _, rec := range g.Guesses {
		res.Guesses = append(res.Guesses, guessView{Word: rec.Word, Result: rec.Result.String()})
	}
	if g.Finished {
		res.Answer = g.Answer
	}
	writeJSON(w, http.StatusOK, res)
}

type errorRes struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorRes{Error: "not_found"})
	case errors.Is(err, ErrNotInList):
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "not_in_list"})
	case errors.Is(err, ErrInvalidGuess):
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_guess"})
	case errors.Is(err, ErrFinished):
		writeJSON(w, http.StatusConflict, errorRes{Error: "game_finished"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "internal"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// markNames renders marks as tile data-state values.
func markNames(r entity.GuessResult) []string {
	out := make([]string, len(r))
	for i, m := range r {
		switch m {
		case entity.MarkCorrect:
			out[i] = "correct"
		case entity.MarkPresent:
			out[i] = "present"
		case entity.MarkAbsent:
			out[i] = "absent"
		default:
			out[i] = "tbd"
		}
	}
	return out
}
