package assumption

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"manufacturing_kds/pkg/core/utils"
)

// Load reads an assumption file over the defaults. Keys absent from the file
// keep their default value, and override maps are merged key by key.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Set, error) {
	set := Defaults()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("[ASSUMPTION] file not found, using defaults")
		return set, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read assumptions %s: %w", path, err)
	}

	if err := Decode(set, filepath.Ext(path), data); err != nil {
		return nil, fmt.Errorf("parse assumptions %s: %w", path, err)
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("assumptions %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("[ASSUMPTION] loaded")
	return set, nil
}

// Decode overlays data onto set. ext selects the format: .yaml/.yml, or
// .hjson/.json (plain JSON is valid Hjson).
func Decode(set *Set, ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, set)
	case ".hjson", ".json":
		normalized, err := utils.ParseHJSON(string(data))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(normalized), set)
	default:
		return fmt.Errorf("unsupported assumption format %q", ext)
	}
}

// Validate rejects values the calculators would divide by.
func (s *Set) Validate() error {
	var errs []error
	if s.Logistics.CapacityRatio <= 0 {
		errs = append(errs, errors.New("logistics.capacity_ratio must be positive"))
	}
	if s.Logistics.BaselineForklifts <= 0 || s.Logistics.BaselineAGVs <= 0 {
		errs = append(errs, errors.New("logistics baseline fleet sizes must be positive"))
	}
	if s.Logistics.AGVEfficiency <= 0 {
		errs = append(errs, errors.New("logistics.agv_efficiency must be positive"))
	}
	for _, rate := range s.Welding.SavingsRates {
		if rate < 0 || rate > 100 {
			errs = append(errs, fmt.Errorf("welding.savings_rates: %v is not a percentage", rate))
		}
	}
	if s.Production.LowUtilization > s.Production.HighUtilization {
		errs = append(errs, errors.New("production.low_utilization exceeds high_utilization"))
	}
	return errors.Join(errs...)
}
