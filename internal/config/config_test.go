package config

import (
	"errors"
	"reflect"
	"testing"

	"velar-backend/internal/dataset"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"VELAR_DATA_CSV", "VELAR_WHITEPAPER", "PORT", "VELAR_DATA_DRIVER", "VELAR_DATA_DSN", "VELAR_DATA_TABLE", "VELAR_RECOMMENDATIONS", "VELAR_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	c := FromEnv()
	if c.DataPath != DefaultDataPath || c.WhitepaperPath != DefaultWhitepaperPath || c.Port != DefaultPort {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.DataTable != DefaultTable {
		t.Errorf("DataTable=%q want %q", c.DataTable, DefaultTable)
	}
	if !reflect.DeepEqual(c.AllowedOrigins, []string{"*"}) {
		t.Errorf("AllowedOrigins=%v", c.AllowedOrigins)
	}
	if c.Addr() != ":5000" {
		t.Errorf("Addr=%q", c.Addr())
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("VELAR_DATA_CSV", "/data/tools.csv")
	t.Setenv("VELAR_WHITEPAPER", "/data/paper.pdf")
	t.Setenv("PORT", "8080")
	t.Setenv("VELAR_DATA_DRIVER", "postgres")
	t.Setenv("VELAR_DATA_DSN", "postgres://u@h/db")
	t.Setenv("VELAR_DATA_TABLE", "public.tools")
	t.Setenv("VELAR_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	c := FromEnv()
	want := dataset.Source{Path: "/data/tools.csv", Driver: "postgres", DSN: "postgres://u@h/db", Table: "public.tools"}
	if c.Source() != want {
		t.Errorf("Source=%+v want %+v", c.Source(), want)
	}
	if c.WhitepaperPath != "/data/paper.pdf" || c.Addr() != ":8080" {
		t.Errorf("unexpected config: %+v", c)
	}
	if !reflect.DeepEqual(c.AllowedOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("AllowedOrigins=%v", c.AllowedOrigins)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Port: "5000", DataTable: DefaultTable}

	cases := []struct {
		name string
		mut  func(*Config)
		want error
	}{
		{"ok", func(*Config) {}, nil},
		{"non numeric port", func(c *Config) { c.Port = "http" }, ErrInvalidPort},
		{"port out of range", func(c *Config) { c.Port = "70000" }, ErrInvalidPort},
		{"unknown driver", func(c *Config) { c.DataDSN = "x"; c.DataDriver = "oracle" }, dataset.ErrUnsupportedDriver},
		{"bad table", func(c *Config) { c.DataDSN = "x"; c.DataDriver = "sqlite"; c.DataTable = "t;--" }, dataset.ErrInvalidTable},
		{"driver ignored without dsn", func(c *Config) { c.DataDriver = "oracle" }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mut(&c)
			if err := c.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate=%v want %v", err, tc.want)
			}
		})
	}
}
