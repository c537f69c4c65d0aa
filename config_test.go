package main

import "testing"

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "4567")
	t.Setenv("CLIENT_URL", "https://game.example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("HUB_URL", "https://hub.example.com")
	t.Setenv("HOSTED_GAME_KEY", "game-42")
	t.Setenv("STATS_DB", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != 4567 {
		t.Errorf("expected port 4567, got %d", cfg.Port)
	}
	if cfg.ClientURL != "https://game.example.com" {
		t.Errorf("client url mismatch: %s", cfg.ClientURL)
	}
	if cfg.AdminPassword != "hunter2" || cfg.HubURL != "https://hub.example.com" || cfg.HostedGameKey != "game-42" {
		t.Errorf("config mismatch: %+v", cfg)
	}
	if cfg.StatsDB != "" {
		t.Error("empty STATS_DB should disable the journal")
	}
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "-1")
	if _, err := LoadConfig(); err == nil {
		t.Error("negative port should be rejected")
	}

	t.Setenv("PORT", "70000")
	if _, err := LoadConfig(); err == nil {
		t.Error("out-of-range port should be rejected")
	}
}
