package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/icco/recall"
	"go.uber.org/zap"
)

func renderJSON(w http.ResponseWriter, status int, v interface{}) {
	if err := Renderer.JSON(w, status, v); err != nil {
		log.Errorw("failed to render JSON", zap.Error(err))
	}
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(kind recall.Kind) int {
	switch kind {
	case recall.KindUnauthorized:
		return http.StatusUnauthorized
	case recall.KindNotFound:
		return http.StatusNotFound
	case recall.KindInputInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func renderError(w http.ResponseWriter, err error) {
	kind := recall.KindOf(err)
	renderJSON(w, statusFor(kind), ErrorResponse{
		Error: recall.Message(err),
		Kind:  kind,
	})
}

// respond counts the operation and renders either v or err.
func (s *server) respond(w http.ResponseWriter, r *http.Request, op string, status int, v interface{}, err error) {
	s.metrics.record(r.Context(), op, err)
	if err != nil {
		if recall.KindOf(err) == recall.KindInternal {
			log.Errorw("operation failed", "operation", op, zap.Error(err))
		} else {
			log.Debugw("operation rejected", "operation", op, "error", err.Error())
		}
		renderError(w, err)
		return
	}
	renderJSON(w, status, v)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return recall.Invalid("body", "is not valid JSON")
	}
	return nil
}

// pathID reads a positive integer URL parameter.
func pathID(r *http.Request, key string) (int64, error) {
	raw := ugcPolicy.Sanitize(chi.URLParam(r, key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, recall.Invalid(key, "must be a positive integer")
	}
	return id, nil
}

// @Summary Create a game
// @Description Creates a game owned by the caller
// @Tags games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param game body recall.CreateGameInput true "Game definition"
// @Success 201 {object} recall.Game
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /games [post]
func (s *server) createGameHandler(w http.ResponseWriter, r *http.Request) {
	var in recall.CreateGameInput
	err := decode(r, &in)
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		s.respond(w, r, "createGame", 0, nil, err)
		return
	}

	game, err := s.actions.CreateGame(r.Context(), in)
	s.respond(w, r, "createGame", http.StatusCreated, game, err)
}

// @Summary List my games
// @Description Lists games owned by the caller, active only unless include_inactive is set
// @Tags games
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "Include inactive games"
// @Success 200 {array} recall.Game
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /games [get]
func (s *server) listMyGamesHandler(w http.ResponseWriter, r *http.Request) {
	var in recall.ListMyGamesInput
	if raw := r.URL.Query().Get("include_inactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.respond(w, r, "listMyGames", 0, nil, recall.Invalid("include_inactive", "must be a boolean"))
			return
		}
		in.IncludeInactive = v
	}

	games, err := s.actions.ListMyGames(r.Context(), in)
	s.respond(w, r, "listMyGames", http.StatusOK, games, err)
}

// @Summary List playable games
// @Description Lists active games the caller owns plus the system catalog
// @Tags games
// @Produce json
// @Security BearerAuth
// @Success 200 {array} recall.Game
// @Failure 401 {object} ErrorResponse
// @Router /catalog [get]
func (s *server) catalogHandler(w http.ResponseWriter, r *http.Request) {
	games, err := s.actions.ListAvailableGames(r.Context())
	s.respond(w, r, "listAvailableGames", http.StatusOK, games, err)
}

// @Summary Get a game
// @Description Returns a game the caller owns or a system game
// @Tags games
// @Produce json
// @Security BearerAuth
// @Param id path int true "Game id"
// @Success 200 {object} recall.Game
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /games/{id} [get]
func (s *server) getGameHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respond(w, r, "getGame", 0, nil, err)
		return
	}

	game, err := s.actions.GetGame(r.Context(), id)
	s.respond(w, r, "getGame", http.StatusOK, game, err)
}

// @Summary Update a game
// @Description Applies the fields present in the body to a game the caller owns. Null clears description and difficulty_levels.
// @Tags games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Game id"
// @Param game body recall.UpdateGameInput true "Fields to change"
// @Success 200 {object} recall.Game
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /games/{id} [patch]
func (s *server) updateGameHandler(w http.ResponseWriter, r *http.Request) {
	var in recall.UpdateGameInput
	id, err := pathID(r, "id")
	if err == nil {
		err = decode(r, &in)
	}
	if err == nil {
		in.ID = id
		err = in.Validate()
	}
	if err != nil {
		s.respond(w, r, "updateGame", 0, nil, err)
		return
	}

	game, err := s.actions.UpdateGame(r.Context(), in)
	s.respond(w, r, "updateGame", http.StatusOK, game, err)
}

// @Summary Start a session
// @Description Opens an in_progress session on an active game the caller may play
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body recall.StartSessionInput true "Session options"
// @Success 201 {object} recall.Session
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions [post]
func (s *server) startSessionHandler(w http.ResponseWriter, r *http.Request) {
	var in recall.StartSessionInput
	err := decode(r, &in)
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		s.respond(w, r, "startSession", 0, nil, err)
		return
	}

	session, err := s.actions.StartSession(r.Context(), in)
	s.respond(w, r, "startSession", http.StatusCreated, session, err)
}

// @Summary Get a session
// @Description Returns one of the caller's sessions with its rounds
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session id"
// @Success 200 {object} recall.Session
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (s *server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respond(w, r, "getSession", 0, nil, err)
		return
	}

	session, err := s.actions.GetSession(r.Context(), id)
	s.respond(w, r, "getSession", http.StatusOK, session, err)
}

// @Summary Complete a session
// @Description Finalizes a session. Status defaults to completed and ended_at is always stamped.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session id"
// @Param session body recall.CompleteSessionInput false "Final values"
// @Success 200 {object} recall.Session
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/complete [post]
func (s *server) completeSessionHandler(w http.ResponseWriter, r *http.Request) {
	var in recall.CompleteSessionInput
	id, err := pathID(r, "id")
	if err == nil {
		err = decode(r, &in)
	}
	if err == nil {
		in.ID = id
		err = in.Validate()
	}
	if err != nil {
		s.respond(w, r, "completeSession", 0, nil, err)
		return
	}

	session, err := s.actions.CompleteSession(r.Context(), in)
	s.respond(w, r, "completeSession", http.StatusOK, session, err)
}

// @Summary Record a round
// @Description Appends a round to one of the caller's sessions
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session id"
// @Param round body recall.RecordRoundInput true "Round"
// @Success 201 {object} recall.Round
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/rounds [post]
func (s *server) recordRoundHandler(w http.ResponseWriter, r *http.Request) {
	var in recall.RecordRoundInput
	id, err := pathID(r, "id")
	if err == nil {
		err = decode(r, &in)
	}
	if err == nil {
		in.SessionID = id
		err = in.Validate()
	}
	if err != nil {
		s.respond(w, r, "recordRound", 0, nil, err)
		return
	}

	round, err := s.actions.RecordRound(r.Context(), in)
	s.respond(w, r, "recordRound", http.StatusCreated, round, err)
}

// @Summary List performance
// @Description Returns the caller's performance rows
// @Tags performance
// @Produce json
// @Security BearerAuth
// @Success 200 {array} recall.Performance
// @Failure 401 {object} ErrorResponse
// @Router /performance [get]
func (s *server) listPerformanceHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := s.actions.ListPerformance(r.Context())
	s.respond(w, r, "listPerformance", http.StatusOK, rows, err)
}

// @Summary Upsert performance
// @Description Merges the supplied aggregates into the caller's row for a game
// @Tags performance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gameId path int true "Game id"
// @Param performance body recall.UpsertPerformanceInput true "Aggregates"
// @Success 200 {object} recall.Performance
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /performance/{gameId} [put]
func (s *server) upsertPerformanceHandler(w http.ResponseWriter, r *http.Request) {
	var in recall.UpsertPerformanceInput
	id, err := pathID(r, "gameId")
	if err == nil {
		err = decode(r, &in)
	}
	if err == nil {
		in.GameID = id
		err = in.Validate()
	}
	if err != nil {
		s.respond(w, r, "upsertPerformance", 0, nil, err)
		return
	}

	perf, err := s.actions.UpsertPerformance(r.Context(), in)
	s.respond(w, r, "upsertPerformance", http.StatusOK, perf, err)
}
