package main

import "testing"

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.ListenAddr != ":8080" {
		t.Fatalf("unexpected default listen addr %q", config.ListenAddr)
	}
	if config.MaxSavedGames != 15 {
		t.Fatalf("unexpected default save cap %d", config.MaxSavedGames)
	}
	if config.AiGraceSleepMs != 1500 {
		t.Fatalf("unexpected default grace sleep %d", config.AiGraceSleepMs)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("OTHELLO_LISTEN_ADDR", ":9999")
	t.Setenv("OTHELLO_SAVE_DIR", "/tmp/saves")
	t.Setenv("OTHELLO_TICK_MS", "25")
	t.Setenv("OTHELLO_ZOBRIST_SEED", "12345")
	t.Setenv("OTHELLO_LOG_SEARCH_STATS", "true")
	t.Setenv("OTHELLO_TT_PERSIST_PATH", "/tmp/tt.gob")

	config := LoadConfigFromEnv(DefaultConfig())
	if config.ListenAddr != ":9999" {
		t.Fatalf("listen addr override ignored: %q", config.ListenAddr)
	}
	if config.SaveDir != "/tmp/saves" {
		t.Fatalf("save dir override ignored: %q", config.SaveDir)
	}
	if config.TickMs != 25 {
		t.Fatalf("tick override ignored: %d", config.TickMs)
	}
	if config.ZobristSeed != 12345 {
		t.Fatalf("seed override ignored: %d", config.ZobristSeed)
	}
	if !config.AiLogSearchStats {
		t.Fatalf("log stats override ignored")
	}
	if !config.AiEnableTtPersistence || config.AiTtPersistencePath != "/tmp/tt.gob" {
		t.Fatalf("tt persistence override ignored: %+v", config)
	}
}

func TestLoadConfigFromEnvIgnoresBadNumbers(t *testing.T) {
	t.Setenv("OTHELLO_TICK_MS", "not-a-number")
	t.Setenv("OTHELLO_ZOBRIST_SEED", "-5")
	config := LoadConfigFromEnv(DefaultConfig())
	if config.TickMs != DefaultConfig().TickMs {
		t.Fatalf("bad tick value should be ignored, got %d", config.TickMs)
	}
	if config.ZobristSeed != DefaultConfig().ZobristSeed {
		t.Fatalf("bad seed value should be ignored, got %d", config.ZobristSeed)
	}
}

func TestConfigStoreUpdate(t *testing.T) {
	old := GetConfig()
	t.Cleanup(func() { configStore.Update(old) })

	updated := old
	updated.TickMs = 123
	configStore.Update(updated)
	if GetConfig().TickMs != 123 {
		t.Fatalf("update not visible through GetConfig")
	}
}
