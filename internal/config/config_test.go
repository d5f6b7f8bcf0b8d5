package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LISTEN_ADDR", "DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_URL", "SITE_BASE_URL", "SITE_NAME", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.DatabaseDriver)
	}
	if cfg.DSN() != "myblog.db" {
		t.Fatalf("expected sqlite dsn myblog.db, got %q", cfg.DSN())
	}
	if cfg.SiteName != "My Blog" {
		t.Fatalf("unexpected site name %q", cfg.SiteName)
	}
}

func TestLoadPostgresAndTrimming(t *testing.T) {
	t.Setenv("PORT", " 9000 ")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("DATABASE_DRIVER", "PostgreSQL")
	t.Setenv("DATABASE_URL", "postgres://blog:secret@db:5432/blog")
	t.Setenv("SITE_BASE_URL", "https://blog.example.com/")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()

	if cfg.ListenAddr != ":9000" {
		t.Fatalf("expected :9000, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != DriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.DatabaseDriver)
	}
	if cfg.DSN() != "postgres://blog:secret@db:5432/blog" {
		t.Fatalf("unexpected dsn %q", cfg.DSN())
	}
	if cfg.SiteBaseURL != "https://blog.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.SiteBaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected lower-cased log level, got %q", cfg.LogLevel)
	}
}

func TestLoadUploadPathNormalized(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("UPLOAD_URL_PATH", "media/images/")

	cfg := Load()

	if cfg.UploadDir != "uploads" {
		t.Fatalf("expected default upload dir, got %q", cfg.UploadDir)
	}
	if cfg.UploadURLPath != "/media/images" {
		t.Fatalf("expected normalized upload path, got %q", cfg.UploadURLPath)
	}
}
