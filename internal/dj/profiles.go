package dj

import (
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"musicflow/internal/coherence"
)

// ProfilesConfig matches the profiles YAML structure: a default
// profile plus named presets.
type ProfilesConfig struct {
	Defaults Profile            `yaml:"defaults"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile is a named generation preset: arc, thresholds and weights.
type Profile struct {
	Name         string  `yaml:"name"`
	ArcType      string  `yaml:"energy_arc_type"`
	TargetLength int     `yaml:"target_length"`
	Lambda       float64 `yaml:"lambda_popularity"`
	MaxBPMDelta  float64 `yaml:"max_bpm_delta"`
	MinCoherence float64 `yaml:"min_coherence_threshold"`

	WeightBPM     float64 `yaml:"w_bpm"`
	WeightKey     float64 `yaml:"w_key"`
	WeightValence float64 `yaml:"w_valence"`
	WeightEnergy  float64 `yaml:"w_energy"`
}

var (
	currentProfiles *ProfilesConfig
	profilesMu      sync.RWMutex
	// Fallback if the profiles file fails entirely
	fallbackProfile = Profile{
		Name:         "General Mixing",
		ArcType:      string(ArcProgressive),
		TargetLength: 30,
		Lambda:       0.4,
		MaxBPMDelta:  10.0,
		MinCoherence: 0.6,

		WeightBPM:     coherence.DefaultWeightBPM,
		WeightKey:     coherence.DefaultWeightKey,
		WeightValence: coherence.DefaultWeightValence,
		WeightEnergy:  coherence.DefaultWeightEnergy,
	}
)

// LoadProfiles reads the presets file and swaps it in atomically.
func LoadProfiles(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var cfg ProfilesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	profilesMu.Lock()
	currentProfiles = &cfg
	profilesMu.Unlock()

	log.Printf("📋 Profiles Loaded: defaults + %d presets", len(cfg.Profiles))
	return nil
}

// GetProfile returns the named preset, the YAML defaults when the name
// is unknown, or the hardcoded fallback when nothing is loaded.
func GetProfile(name string) Profile {
	profilesMu.RLock()
	defer profilesMu.RUnlock()

	if currentProfiles == nil {
		return fallbackProfile
	}

	if p, ok := currentProfiles.Profiles[name]; ok {
		return p
	}

	return currentProfiles.Defaults
}

// Config converts a profile into a build config.
func (p Profile) Config() Config {
	return Config{
		TargetLength: p.TargetLength,
		Lambda:       p.Lambda,
		MaxBPMDelta:  p.MaxBPMDelta,
		MinCoherence: p.MinCoherence,
		ArcType:      ArcType(p.ArcType),
	}
}

// Weights converts a profile's weighting into the metrics value type.
func (p Profile) Weights() coherence.Weights {
	return coherence.Weights{
		BPM:     p.WeightBPM,
		Key:     p.WeightKey,
		Valence: p.WeightValence,
		Energy:  p.WeightEnergy,
	}
}
