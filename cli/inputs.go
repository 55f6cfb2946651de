package cli

import (
	"github.com/lixenwraith/threatfield/catalog"
	"github.com/lixenwraith/threatfield/config"
)

// LoadInputs resolves the config and catalog paths, empty meaning built-in
func LoadInputs(configPath, catalogPath string) (config.Config, *catalog.Catalog, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return cfg, nil, err
		}
	}
	cat := catalog.Builtin()
	if catalogPath != "" {
		var err error
		if cat, err = catalog.Load(catalogPath); err != nil {
			return cfg, nil, err
		}
	}
	return cfg, cat, nil
}
