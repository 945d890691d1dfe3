package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"velar-backend/internal/config"
)

func TestPrintSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.csv")
	csv := "category_canonical,open_source,release_year,tool_name\nChat,1,2024,A\nChat,0,2023,B\nImage,,x,C\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := printSummary(context.Background(), config.Config{DataPath: path}, &out); err != nil {
		t.Fatalf("printSummary: %v", err)
	}

	var got struct {
		Stats struct {
			Total         int `json:"total"`
			OpenSourcePct int `json:"open_source_pct"`
			LatestYear    int `json:"latest_year"`
		} `json:"stats"`
		WhiteSpace struct {
			LowCountCategories []string `json:"low_count_categories"`
		} `json:"whitespace"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if got.Stats.Total != 3 || got.Stats.OpenSourcePct != 33 || got.Stats.LatestYear != 2024 {
		t.Errorf("stats=%+v", got.Stats)
	}
	if len(got.WhiteSpace.LowCountCategories) != 2 {
		t.Errorf("low_count_categories=%v", got.WhiteSpace.LowCountCategories)
	}
}

func TestLoadDataset_FallsBackToEmpty(t *testing.T) {
	cfg := config.Config{DataPath: filepath.Join(t.TempDir(), "missing.csv")}
	ds := loadDataset(context.Background(), cfg, nil)
	if ds == nil || ds.Len() != 0 || len(ds.Columns()) != 0 {
		t.Fatalf("expected empty dataset, got %v", ds)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"data", "data-dsn", "whitepaper", "port", "allowed-origins"} {
		if cmd.Flags().Lookup(name) == nil && cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
	if sub, _, err := cmd.Find([]string{"summary"}); err != nil || sub.Name() != "summary" {
		t.Errorf("summary subcommand not registered: %v", err)
	}
}
