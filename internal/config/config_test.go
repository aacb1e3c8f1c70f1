package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GCS_BUCKET", "portal-docs")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Currency != "BRL" || cfg.SideEffectTimeout != 15*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.QuotesTable != "quotes" || cfg.CountersTable != "counters" {
		t.Fatalf("unexpected table defaults %+v", cfg)
	}
	if !cfg.UsesRedis() {
		t.Fatal("default notification backend needs redis")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PERSISTENCE_BACKEND", "memory")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("SEQUENCE_BACKEND", "memory")
	t.Setenv("PROJECTS_SEED_FILE", "projects.json")
	t.Setenv("NOTIFICATION_BACKEND", "log")
	t.Setenv("OPERATOR_EMAILS", "ops@studio.com,owner@studio.com")
	t.Setenv("CURRENCY", " usd ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.OperatorEmails) != 2 || cfg.OperatorEmails[1] != "owner@studio.com" {
		t.Fatalf("unexpected operators %v", cfg.OperatorEmails)
	}
	if cfg.ProjectsSeedFile != "projects.json" {
		t.Fatalf("unexpected seed file %q", cfg.ProjectsSeedFile)
	}
	if cfg.Currency != "USD" {
		t.Fatalf("currency not normalized: %q", cfg.Currency)
	}
	if cfg.UsesRedis() {
		t.Fatal("memory and log backends need no redis")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown storage", map[string]string{"STORAGE_BACKEND": "s3"}},
		{"gcs without bucket", map[string]string{"STORAGE_BACKEND": "gcs"}},
		{"bad currency", map[string]string{"STORAGE_BACKEND": "memory", "CURRENCY": "REAL"}},
		{"unknown sequence", map[string]string{"STORAGE_BACKEND": "memory", "SEQUENCE_BACKEND": "etcd"}},
		{"bad timeout", map[string]string{"STORAGE_BACKEND": "memory", "SIDE_EFFECT_TIMEOUT": "soon"}},
		{"memory sequence over dynamodb", map[string]string{"STORAGE_BACKEND": "memory", "PERSISTENCE_BACKEND": "dynamodb", "SEQUENCE_BACKEND": "memory"}},
		{"seed file over dynamodb", map[string]string{"STORAGE_BACKEND": "memory", "PROJECTS_SEED_FILE": "projects.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_SequenceBackendCombinations(t *testing.T) {
	tests := []struct {
		persistence string
		sequence    string
		wantErr     bool
	}{
		{"dynamodb", "dynamodb", false},
		{"dynamodb", "redis", false},
		{"dynamodb", "memory", true},
		{"memory", "memory", false},
		{"memory", "dynamodb", false},
	}
	for _, tt := range tests {
		t.Run(tt.persistence+"/"+tt.sequence, func(t *testing.T) {
			t.Setenv("STORAGE_BACKEND", "memory")
			t.Setenv("PERSISTENCE_BACKEND", tt.persistence)
			t.Setenv("SEQUENCE_BACKEND", tt.sequence)
			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v got %v", tt.wantErr, err)
			}
		})
	}
}
