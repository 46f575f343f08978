package termindex

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gofhir/termindex/store"
)

func TestRunConfigurationRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  RunConfiguration
	}{
		{"all flags", RunConfiguration{Language: "GER", Lowercase: true, NormalizeUnicode: true, Backend: store.BackendLevelDB}},
		{"no boolean flags", RunConfiguration{Language: "ENG", Backend: store.BackendBolt}},
		{"lowercase only", RunConfiguration{Language: "FRE", Lowercase: true, Backend: store.BackendBolt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := tt.cfg.Write(dir); err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			got, err := ReadRunConfiguration(dir)
			if err != nil {
				t.Fatalf("ReadRunConfiguration() error = %v", err)
			}
			if !reflect.DeepEqual(*got, tt.cfg) {
				t.Errorf("round trip = %+v; want %+v", *got, tt.cfg)
			}
		})
	}
}

func TestRunConfigurationSentinelPresence(t *testing.T) {
	dir := t.TempDir()
	cfg := RunConfiguration{Language: "ENG", Lowercase: true, Backend: store.BackendBolt}
	if err := cfg.Write(dir); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, FlagLowercase)); err != nil {
		t.Errorf("lowercase sentinel missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FlagNormalizeUnicode)); !os.IsNotExist(err) {
		t.Error("normalize-unicode sentinel should not exist for this run")
	}

	data, err := os.ReadFile(filepath.Join(dir, FlagBackend))
	if err != nil {
		t.Fatalf("backend flag unreadable: %v", err)
	}
	if string(data) != "bolt" {
		t.Errorf("backend flag = %q; want %q", data, "bolt")
	}
}

func TestReadRunConfigurationMissingDir(t *testing.T) {
	_, err := ReadRunConfiguration(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected an error for a directory without flags")
	}
}
