package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"snow-route-pricing/internal/domain"
)

// RateCardEnvPrefix prefixes rate card overrides. Nested keys are separated
// by a double underscore: RATECARD_EQUIPMENT__LOADER=175.
const RateCardEnvPrefix = "RATECARD_"

// LoadRateCard merges an optional YAML or JSON file and RATECARD_ overrides
// over the default card, then validates the result.
func LoadRateCard(path string) (domain.RateCard, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return domain.RateCard{}, fmt.Errorf("load rate card: unsupported format %q", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return domain.RateCard{}, fmt.Errorf("load rate card %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(RateCardEnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, RateCardEnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return domain.RateCard{}, fmt.Errorf("load rate card env: %w", err)
	}

	rc := domain.DefaultRateCard()
	if err := k.UnmarshalWithConf("", &rc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return domain.RateCard{}, fmt.Errorf("decode rate card: %w", err)
	}
	if err := rc.Validate(); err != nil {
		return domain.RateCard{}, err
	}
	return rc, nil
}
