package config

import (
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.HTTP.Port)
	}
	if cfg.Database.Driver != DriverNone {
		t.Errorf("driver = %q, want none", cfg.Database.Driver)
	}
	if cfg.Matcher.Threshold != 0.15 || cfg.Matcher.TopPerPhrase != 2 {
		t.Errorf("matcher = %+v", cfg.Matcher)
	}
	if cfg.Matcher.MinGram != 2 || cfg.Matcher.MaxGram != 4 {
		t.Errorf("n-gram range = [%d, %d]", cfg.Matcher.MinGram, cfg.Matcher.MaxGram)
	}
	if cfg.Diagnosis.TopN != 3 {
		t.Errorf("top_n = %d", cfg.Diagnosis.TopN)
	}
	if cfg.History.DefaultLimit != 50 || cfg.History.MaxLimit != 200 || cfg.History.MaxRecords != 200 {
		t.Errorf("history = %+v", cfg.History)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("SYMDX_TEST_PORT", "9090")
	data := []byte(`
http:
  port: ${SYMDX_TEST_PORT}
database:
  driver: redis
  addrs: ["${SYMDX_TEST_ADDR:-cache:6379}"]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "cache:6379" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }, "database.driver"},
		{"redis without addrs", func(c *Config) { c.Database.Driver = DriverRedis }, "database.addrs"},
		{"valkey with addrs", func(c *Config) {
			c.Database.Driver = DriverValkey
			c.Database.Addrs = []string{"localhost:6379"}
		}, ""},
		{"file driver", func(c *Config) { c.Database.Driver = DriverFile }, ""},
		{"threshold above one", func(c *Config) { c.Matcher.Threshold = 1.5 }, "matcher.threshold"},
		{"negative threshold", func(c *Config) { c.Matcher.Threshold = -0.1 }, "matcher.threshold"},
		{"zero top per phrase", func(c *Config) { c.Matcher.TopPerPhrase = -1 }, "top_per_phrase"},
		{"inverted n-grams", func(c *Config) { c.Matcher.MinGram, c.Matcher.MaxGram = 4, 2 }, "n-gram"},
		{"top n above three", func(c *Config) { c.Diagnosis.TopN = 4 }, "diagnosis.top_n"},
		{"top n of one", func(c *Config) { c.Diagnosis.TopN = 1 }, ""},
		{"default above max", func(c *Config) { c.History.DefaultLimit = 500 }, "default_limit"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_Local(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != DriverFile {
		t.Errorf("driver = %q, want file", cfg.Database.Driver)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingEnv(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
