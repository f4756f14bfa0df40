package main

import (
	"os"
	"strconv"
	"sync"
)

type Config struct {
	ListenAddr    string `json:"listen_addr"`
	SaveDir       string `json:"save_dir"`
	MaxSavedGames int    `json:"max_saved_games"`
	DatabasePath  string `json:"database_path"`
	TickMs        int    `json:"tick_ms"`

	ZobristSeed           uint64 `json:"zobrist_seed"`
	AiGraceSleepMs        int    `json:"ai_grace_sleep_ms"`
	AiLogSearchStats      bool   `json:"ai_log_search_stats"`
	AiEnableTtPersistence bool   `json:"ai_enable_tt_persistence"`
	AiTtPersistencePath   string `json:"ai_tt_persistence_path"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:    ":8080",
		SaveDir:       "saved_games",
		MaxSavedGames: 15,
		DatabasePath:  "data/othello.db",
		TickMs:        50,

		// 0 picks a fresh seed per AI player.
		ZobristSeed: 0,

		// Keeps the deepening loop from returning a trivially shallow
		// result right after the clock starts.
		AiGraceSleepMs: 1500,

		AiLogSearchStats:      false,
		AiEnableTtPersistence: false,
		AiTtPersistencePath:   "tt_cache.gob",
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

// LoadConfigFromEnv layers OTHELLO_* environment overrides onto a base
// config.
func LoadConfigFromEnv(base Config) Config {
	config := base
	if value := os.Getenv("OTHELLO_LISTEN_ADDR"); value != "" {
		config.ListenAddr = value
	}
	if value := os.Getenv("OTHELLO_SAVE_DIR"); value != "" {
		config.SaveDir = value
	}
	if value := os.Getenv("OTHELLO_DB_PATH"); value != "" {
		config.DatabasePath = value
	}
	if value := os.Getenv("OTHELLO_TT_PERSIST_PATH"); value != "" {
		config.AiTtPersistencePath = value
		config.AiEnableTtPersistence = true
	}
	if value, ok := envInt("OTHELLO_MAX_SAVED_GAMES"); ok {
		config.MaxSavedGames = value
	}
	if value, ok := envInt("OTHELLO_TICK_MS"); ok {
		config.TickMs = value
	}
	if value, ok := envInt("OTHELLO_GRACE_SLEEP_MS"); ok {
		config.AiGraceSleepMs = value
	}
	if value, ok := envUint("OTHELLO_ZOBRIST_SEED"); ok {
		config.ZobristSeed = value
	}
	if value := os.Getenv("OTHELLO_LOG_SEARCH_STATS"); value != "" {
		config.AiLogSearchStats = value == "1" || value == "true"
	}
	return config
}

func envInt(key string) (int, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func envUint(key string) (uint64, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
