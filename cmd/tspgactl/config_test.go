package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRunConfigDefaults(t *testing.T) {
	cfg, err := loadRunConfig("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Population != 200 || !cfg.Elitism || cfg.MutationRate != 0.02 || cfg.SurvivalRate != 0.2 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Nodes != 1024 || cfg.Crossover != "neighbors" || cfg.Mutation != "two-opt" {
		t.Fatalf("unexpected operator defaults: %+v", cfg)
	}
	if got := cfg.toModel().GraphSource; got != "random:1024" {
		t.Fatalf("unexpected graph source: %s", got)
	}
}

func TestLoadRunConfigFileKeepsOmittedDefaults(t *testing.T) {
	path := writeConfig(t, "population: 40\nelitism: false\ncrossover: naive-cut\ngraph: cities.txt\n")
	cfg, err := loadRunConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Population != 40 || cfg.Elitism || cfg.Crossover != "naive-cut" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.MutationRate != 0.02 || cfg.Mutation != "two-opt" {
		t.Fatalf("omitted fields lost their defaults: %+v", cfg)
	}
	if got := cfg.toModel().GraphSource; got != "cities.txt" {
		t.Fatalf("unexpected graph source: %s", got)
	}
}

func TestLoadRunConfigRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "populaton: 40\n")
	if _, err := loadRunConfig(path); err == nil {
		t.Fatal("expected unknown field error")
	}
	if _, err := loadRunConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}
}

func TestLoadRunConfigEmptyFile(t *testing.T) {
	cfg, err := loadRunConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load empty config: %v", err)
	}
	if cfg.Population != 200 {
		t.Fatalf("expected defaults for empty file, got %+v", cfg)
	}
}

func TestOverrideFromFlagsOnlyAppliesSetFlags(t *testing.T) {
	cfg, err := loadRunConfig(writeConfig(t, "population: 40\nmutation_rate: 0.5\n"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	flagValue := defaultRunConfig()
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	bindRunFlags(fs, &flagValue)
	if err := fs.Parse([]string{"--pop", "12", "--elitism=false", "--seed", "5"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	overrideFromFlags(&cfg, fs, flagValue)

	if cfg.Population != 12 || cfg.Elitism || cfg.Seed != 5 {
		t.Fatalf("flag overrides not applied: %+v", cfg)
	}
	if cfg.MutationRate != 0.5 {
		t.Fatalf("unset flag overrode file value: %+v", cfg)
	}
}

func TestRunConfigValidate(t *testing.T) {
	cases := map[string]func(*runConfig){
		"population": func(c *runConfig) { c.Population = 0 },
		"nodes":      func(c *runConfig) { c.Nodes = 0 },
		"workers":    func(c *runConfig) { c.Workers = -1 },
		"two-opt":    func(c *runConfig) { c.TwoOptPasses = -1 },
	}
	for name, mutate := range cases {
		cfg := defaultRunConfig()
		mutate(&cfg)
		if err := cfg.validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if err := defaultRunConfig().validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
