package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/lixenwraith/threatfield/config"
)

func TestLoadInputsDefaults(t *testing.T) {
	cfg, cat, err := LoadInputs("", "")
	if err != nil {
		t.Fatalf("LoadInputs: %v", err)
	}
	if cfg != config.Default() {
		t.Error("empty config path did not yield defaults")
	}
	if cat.Len() == 0 {
		t.Error("builtin catalog empty")
	}
}

func TestLoadInputsFiles(t *testing.T) {
	cfg, cat, err := LoadInputs("../config/testdata/small.yaml", "../catalog/testdata/units.yaml")
	if err != nil {
		t.Fatalf("LoadInputs: %v", err)
	}
	if cfg.Grid.Width != 4 || cat.Len() == 0 {
		t.Errorf("grid width %d, catalog %d defs", cfg.Grid.Width, cat.Len())
	}
}

func TestLoadInputsErrors(t *testing.T) {
	if _, _, err := LoadInputs("../config/testdata/bad_queue.yaml", ""); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("bad config err = %v, want ErrInvalid", err)
	}
	if _, _, err := LoadInputs("", "does-not-exist.yaml"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing catalog err = %v, want ErrNotExist", err)
	}
}
