package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"barbu/internal/domain"
)

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
rules:
  special_double_overlap: additive
export:
  compress: true
share:
  ttl_minutes: 30
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := c.DomainRules().SpecialOverlap; got != domain.OverlapAdditive {
		t.Fatalf("SpecialOverlap = %v, want additive", got)
	}
	if !c.Export.Compress {
		t.Fatal("expected export compression")
	}
	if c.Export.Dir != "exports" {
		t.Fatalf("Export.Dir = %q, want default", c.Export.Dir)
	}
	if c.ShareTTL() != 30*time.Minute {
		t.Fatalf("ShareTTL() = %v, want 30m", c.ShareTTL())
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"unknown overlap": "rules:\n  special_double_overlap: twice\n",
		"zero ttl":        "share:\n  ttl_minutes: 0\n",
		"not yaml":        "rules: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", doc)
			}
		})
	}
}

func TestShippedConfigParses(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "barbu.yaml"))
	if err != nil {
		t.Fatalf("read shipped config: %v", err)
	}
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if c.DomainRules() != domain.DefaultRules() {
		t.Fatalf("shipped rules = %+v, want defaults", c.DomainRules())
	}
}
