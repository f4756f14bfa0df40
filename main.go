package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type StatusResponse struct {
	GameID          string            `json:"game_id"`
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	BoardSize       int               `json:"board_size"`
	Status          string            `json:"status"`
	DarkCount       int               `json:"dark_count"`
	LightCount      int               `json:"light_count"`
	LegalMoves      []Move            `json:"legal_moves"`
	History         []historyEntryDTO `json:"history"`
	AiThinking      bool              `json:"ai_thinking"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
	Difficulty  string `json:"difficulty"`
}

type apiMove struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type historyEntryDTO struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	Status StatusResponse `json:"status"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type ttCacheStatusResponse struct {
	Tables  int   `json:"tables"`
	Entries []int `json:"entries"`
	Total   int   `json:"total"`
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	configStore.Update(LoadConfigFromEnv(DefaultConfig()))
	config := GetConfig()

	controller := NewGameController(DefaultGameSettings())
	if archive, err := OpenGameArchive(config.DatabasePath); err != nil {
		log.Warn().Err(err).Str("path", config.DatabasePath).Msg("game archive unavailable")
	} else {
		controller.SetArchive(archive)
		defer archive.Close()
	}
	for _, tt := range controller.AiTables() {
		loadTTPersistence(config, tt)
	}
	defer func() {
		tables := controller.AiTables()
		if len(tables) > 0 {
			if err := persistTTPersistence(GetConfig(), tables[0]); err != nil {
				log.Warn().Err(err).Msg("persisting tt snapshot failed")
			}
		}
	}()

	hub := NewHub()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	group, ctx := errgroup.WithContext(sigCtx)

	group.Go(func() error {
		hub.Run(ctx.Done())
		return nil
	})
	group.Go(func() error {
		return runTickLoop(ctx, controller, hub)
	})

	router := newRouter(controller, hub)
	server := &http.Server{
		Addr:    config.ListenAddr,
		Handler: router,
	}
	group.Go(func() error {
		log.Info().Str("addr", config.ListenAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
	}
	log.Info().Msg("shutdown complete")
}

// runTickLoop drives the game and pushes updates at the hub. Broadcast sends
// are guarded by ctx so the loop cannot wedge on a full channel once hub.Run
// has exited at shutdown.
func runTickLoop(ctx context.Context, controller *GameController, hub *Hub) error {
	ticker := time.NewTicker(time.Duration(GetConfig().TickMs) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if controller.Tick() {
				if entry, ok := controller.LatestHistoryEntry(); ok {
					select {
					case hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}:
					case <-ctx.Done():
						return nil
					}
				}
				select {
				case hub.broadcastStatus <- controllerStatus(controller):
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

func newRouter(controller *GameController, hub *Hub) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		controller.StartGame(settingsFromDTO(payload.Settings, DefaultGameSettings()))
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetPayload{Status: controllerStatus(controller)}
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		controller.Reset(controller.Settings())
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetPayload{Status: controllerStatus(controller)}
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if payload.Config != nil {
			configStore.Update(*payload.Config)
		}
		if payload.Settings != nil {
			controller.Reset(settingsFromDTO(*payload.Settings, controller.Settings()))
		}
		hub.broadcastSettings <- settingsPayload{
			Settings: settingsToDTO(controller.Settings()),
			Config:   GetConfig(),
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload apiMove
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, errMsg := controller.ApplyHumanMove(Move{X: payload.X, Y: payload.Y})
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		if entry, ok := controller.LatestHistoryEntry(); ok {
			hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/api/legal-moves", func(w http.ResponseWriter, r *http.Request) {
		state := controller.State()
		writeJSON(w, http.StatusOK, map[string]any{
			"player": playerToInt(state.ToMove),
			"moves":  legalMovesDTO(state),
		})
	})

	r.Get("/api/saves", func(w http.ResponseWriter, r *http.Request) {
		names, err := ListSavedGames(GetConfig().SaveDir)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"saves": names})
	})

	r.Post("/api/load", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		moves, err := ReadSavedGame(GetConfig().SaveDir, payload.Name)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err := controller.LoadGame(controller.Settings(), moves); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetPayload{Status: controllerStatus(controller)}
	})

	r.Get("/api/games", func(w http.ResponseWriter, r *http.Request) {
		archive := controller.Archive()
		if archive == nil {
			writeJSON(w, http.StatusOK, map[string]any{"games": []ArchivedGame{}})
			return
		}
		games, err := archive.ListArchivedGames(50)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"games": games})
	})

	r.Get("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		tables := controller.AiTables()
		counts := lo.Map(tables, func(tt *TranspositionTable, _ int) int { return tt.Count() })
		writeJSON(w, http.StatusOK, ttCacheStatusResponse{
			Tables:  len(tables),
			Entries: counts,
			Total:   lo.Sum(counts),
		})
	})
	r.Delete("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		for _, tt := range controller.AiTables() {
			tt.Clear()
		}
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})
	return r
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go client.writePump(conn)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		case "move":
			var payload apiMove
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				continue
			}
			controller.SubmitHumanMove(Move{X: payload.X, Y: payload.Y})
		}
	}
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	status := controller.Status()
	dark, light, _ := state.Board.CountPieces()
	return StatusResponse{
		GameID:          controller.GameID(),
		Settings:        settingsToDTO(controller.Settings()),
		Config:          GetConfig(),
		Board:           boardToSlice(state.Board),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(status),
		BoardSize:       BoardSize,
		Status:          status.String(),
		DarkCount:       dark,
		LightCount:      light,
		LegalMoves:      legalMovesDTO(state),
		History:         historyToDTO(controller.History()),
		AiThinking:      controller.AiThinking(),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.DarkType = PlayerAI
		settings.LightType = PlayerAI
	case "human_vs_human":
		settings.DarkType = PlayerHuman
		settings.LightType = PlayerHuman
	case "human_vs_ai":
		if dto.HumanPlayer == 2 {
			settings.DarkType = PlayerAI
			settings.LightType = PlayerHuman
		} else {
			settings.DarkType = PlayerHuman
			settings.LightType = PlayerAI
		}
	}
	if dto.Difficulty != "" {
		settings.Difficulty = Difficulty(dto.Difficulty)
	}
	return settings
}

func settingsToDTO(settings GameSettings) GameSettingsDTO {
	mode := "human_vs_ai"
	humanPlayer := 0
	switch {
	case settings.DarkType == PlayerAI && settings.LightType == PlayerAI:
		mode = "ai_vs_ai"
	case settings.DarkType == PlayerHuman && settings.LightType == PlayerHuman:
		mode = "human_vs_human"
	case settings.DarkType == PlayerHuman:
		humanPlayer = 1
	default:
		humanPlayer = 2
	}
	return GameSettingsDTO{Mode: mode, HumanPlayer: humanPlayer, Difficulty: string(settings.Difficulty)}
}

func boardToSlice(board Board) [][]int {
	rows := make([][]int, BoardSize)
	for y := 0; y < BoardSize; y++ {
		rows[y] = make([]int, BoardSize)
		for x := 0; x < BoardSize; x++ {
			rows[y][x] = cellToInt(board.At(x, y))
		}
	}
	return rows
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellDark:
		return 1
	case CellLight:
		return 2
	default:
		return 0
	}
}

func playerToInt(player PlayerColor) int {
	if player == PlayerDark {
		return 1
	}
	return 2
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusDarkWon:
		return 1
	case StatusLightWon:
		return 2
	default:
		return 0
	}
}

func legalMovesDTO(state GameState) []Move {
	moves := lo.Keys(state.LegalMoves(state.ToMove))
	sort.Slice(moves, func(i, j int) bool {
		if moves[i].Y != moves[j].Y {
			return moves[i].Y < moves[j].Y
		}
		return moves[i].X < moves[j].X
	})
	return moves
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	return lo.Map(history.All(), func(entry HistoryEntry, _ int) historyEntryDTO {
		return historyEntryToDTO(entry)
	})
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		X:         entry.Move.X,
		Y:         entry.Move.Y,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
