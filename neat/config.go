package neat

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidSettings is wrapped by every settings validation failure.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrInvalidShape is returned for a population interface with no inputs or outputs.
	ErrInvalidShape = errors.New("invalid genome shape")
	// ErrEmptyPopulation is returned when a population of size zero is requested.
	ErrEmptyPopulation = errors.New("population size must be positive")
)

// Config stores everything needed to set up a run: the population interface
// and the evolution settings.
type Config struct {
	Neat     NeatConfig `yaml:"neat"`
	Settings Settings   `yaml:"settings"`
}

// NeatConfig holds the parameters fixed at population construction.
type NeatConfig struct {
	PopulationSize int   `ini:"population_size" yaml:"population_size"`
	NumInputs      int   `ini:"num_inputs" yaml:"num_inputs"`
	NumOutputs     int   `ini:"num_outputs" yaml:"num_outputs"`
	Bias           bool  `ini:"bias" yaml:"bias"`
	Seed           int64 `ini:"seed" yaml:"seed"`
}

// Shape returns the genome interface described by the config.
func (nc NeatConfig) Shape() Shape {
	return Shape{Inputs: nc.NumInputs, Outputs: nc.NumOutputs, Bias: nc.Bias}
}

// MutationProbabilities holds the probabilities driving mutation, crossover
// and mating. Each one must lie in [0, 1].
type MutationProbabilities struct {
	ProbMutationWeight             float64 `ini:"prob_mutation_weight" yaml:"prob_mutation_weight"`
	ProbMutationWeightPerturbation float64 `ini:"prob_mutation_weight_perturbation" yaml:"prob_mutation_weight_perturbation"`
	ProbMutationNewNode            float64 `ini:"prob_mutation_new_node" yaml:"prob_mutation_new_node"`
	ProbMutationNewConnection      float64 `ini:"prob_mutation_new_connection" yaml:"prob_mutation_new_connection"`
	ProbInheritOnFitterGenome      float64 `ini:"prob_inherit_on_fitter_genome" yaml:"prob_inherit_on_fitter_genome"`
	ProbInheritDisabledGene        float64 `ini:"prob_inherit_disabled_gene" yaml:"prob_inherit_disabled_gene"`
	ProbOffspringCrossover         float64 `ini:"prob_offspring_crossover" yaml:"prob_offspring_crossover"`
	ProbMatingInterspecies         float64 `ini:"prob_mating_interspecies" yaml:"prob_mating_interspecies"`
}

// SimilarityCoefficients weight the terms of the compatibility distance.
type SimilarityCoefficients struct {
	Excess   float64 `ini:"coefficient_excess" yaml:"coefficient_excess"`
	Disjoint float64 `ini:"coefficient_disjoint" yaml:"coefficient_disjoint"`
	Weight   float64 `ini:"coefficient_weight" yaml:"coefficient_weight"`
}

// Settings is read-only during a generation.
type Settings struct {
	Mutation   MutationProbabilities  `ini:"-" yaml:"mutation"`
	Similarity SimilarityCoefficients `ini:"-" yaml:"similarity"`

	SpeciesSimilarityThreshold      float64 `ini:"species_similarity_threshold" yaml:"species_similarity_threshold"`
	NormalizedGeneSize              int     `ini:"normalized_gene_size" yaml:"normalized_gene_size"` // Genomes below this size are not normalized by gene count.
	SizeSpeciesForChampion          int     `ini:"size_species_for_champion" yaml:"size_species_for_champion"`
	GenerationsForStagnatingSpecies int     `ini:"generations_for_stagnating_species" yaml:"generations_for_stagnating_species"`

	WeightPerturbationPower float64 `ini:"weight_perturbation_power" yaml:"weight_perturbation_power"`
	WeightMinValue          float64 `ini:"weight_min_value" yaml:"weight_min_value"`
	WeightMaxValue          float64 `ini:"weight_max_value" yaml:"weight_max_value"`
	AddConnectionAttempts   int     `ini:"add_connection_attempts" yaml:"add_connection_attempts"`
}

// DefaultSettings returns the stock NEAT settings.
func DefaultSettings() Settings {
	return Settings{
		Mutation: MutationProbabilities{
			ProbMutationWeight:             0.8,
			ProbMutationWeightPerturbation: 0.9,
			ProbMutationNewNode:            0.02,
			ProbMutationNewConnection:      0.05,
			ProbInheritOnFitterGenome:      0.5,
			ProbInheritDisabledGene:        0.75,
			ProbOffspringCrossover:         0.75,
			ProbMatingInterspecies:         0.001,
		},
		Similarity: SimilarityCoefficients{
			Excess:   1.0,
			Disjoint: 1.0,
			Weight:   3.0,
		},
		SpeciesSimilarityThreshold:      4.0,
		NormalizedGeneSize:              20,
		SizeSpeciesForChampion:          5,
		GenerationsForStagnatingSpecies: 15,
		WeightPerturbationPower:         0.5,
		WeightMinValue:                  -30,
		WeightMaxValue:                  30,
		AddConnectionAttempts:           20,
	}
}

// DefaultConfig returns a config with default settings and an empty interface.
// PopulationSize, NumInputs and NumOutputs must still be set.
func DefaultConfig() *Config {
	return &Config{Settings: DefaultSettings()}
}

// Validate checks that every probability lies in [0, 1] and every size and
// coefficient is usable.
func (s *Settings) Validate() error {
	probs := []struct {
		name string
		val  float64
	}{
		{"prob_mutation_weight", s.Mutation.ProbMutationWeight},
		{"prob_mutation_weight_perturbation", s.Mutation.ProbMutationWeightPerturbation},
		{"prob_mutation_new_node", s.Mutation.ProbMutationNewNode},
		{"prob_mutation_new_connection", s.Mutation.ProbMutationNewConnection},
		{"prob_inherit_on_fitter_genome", s.Mutation.ProbInheritOnFitterGenome},
		{"prob_inherit_disabled_gene", s.Mutation.ProbInheritDisabledGene},
		{"prob_offspring_crossover", s.Mutation.ProbOffspringCrossover},
		{"prob_mating_interspecies", s.Mutation.ProbMatingInterspecies},
	}
	for _, p := range probs {
		if math.IsNaN(p.val) || p.val < 0 || p.val > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidSettings, p.name)
		}
	}
	reals := []struct {
		name string
		val  float64
	}{
		{"coefficient_excess", s.Similarity.Excess},
		{"coefficient_disjoint", s.Similarity.Disjoint},
		{"coefficient_weight", s.Similarity.Weight},
		{"species_similarity_threshold", s.SpeciesSimilarityThreshold},
		{"weight_perturbation_power", s.WeightPerturbationPower},
		{"weight_min_value", s.WeightMinValue},
		{"weight_max_value", s.WeightMaxValue},
	}
	for _, r := range reals {
		if math.IsNaN(r.val) || math.IsInf(r.val, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidSettings, r.name)
		}
	}
	if s.Similarity.Excess < 0 || s.Similarity.Disjoint < 0 || s.Similarity.Weight < 0 {
		return fmt.Errorf("%w: similarity coefficients cannot be negative", ErrInvalidSettings)
	}
	if s.SpeciesSimilarityThreshold < 0 {
		return fmt.Errorf("%w: species_similarity_threshold cannot be negative", ErrInvalidSettings)
	}
	if s.NormalizedGeneSize < 0 {
		return fmt.Errorf("%w: normalized_gene_size cannot be negative", ErrInvalidSettings)
	}
	if s.SizeSpeciesForChampion < 0 {
		return fmt.Errorf("%w: size_species_for_champion cannot be negative", ErrInvalidSettings)
	}
	if s.GenerationsForStagnatingSpecies <= 0 {
		return fmt.Errorf("%w: generations_for_stagnating_species must be positive", ErrInvalidSettings)
	}
	if s.WeightPerturbationPower < 0 {
		return fmt.Errorf("%w: weight_perturbation_power cannot be negative", ErrInvalidSettings)
	}
	if s.WeightMaxValue < s.WeightMinValue {
		return fmt.Errorf("%w: weight_max_value cannot be less than weight_min_value", ErrInvalidSettings)
	}
	if s.AddConnectionAttempts <= 0 {
		return fmt.Errorf("%w: add_connection_attempts must be positive", ErrInvalidSettings)
	}
	return nil
}

// Validate checks the population interface and the settings.
func (c *Config) Validate() error {
	if c.Neat.PopulationSize <= 0 {
		return fmt.Errorf("config error: %w", ErrEmptyPopulation)
	}
	if err := c.Neat.Shape().Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := c.Settings.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from an INI file, or from YAML when the file
// ends in .yaml or .yml. Keys missing from the file keep their defaults.
func LoadConfig(filePath string) (*Config, error) {
	var (
		config *Config
		err    error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		config, err = loadYAML(filePath)
	default:
		config, err = loadINI(filePath)
	}
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadINI(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := DefaultConfig()

	// Map sections to structs
	if err := cfg.Section("NEAT").MapTo(&config.Neat); err != nil {
		return nil, fmt.Errorf("failed to map [NEAT] section: %w", err)
	}
	if err := cfg.Section("Mutation").MapTo(&config.Settings.Mutation); err != nil {
		return nil, fmt.Errorf("failed to map [Mutation] section: %w", err)
	}
	if err := cfg.Section("Similarity").MapTo(&config.Settings.Similarity); err != nil {
		return nil, fmt.Errorf("failed to map [Similarity] section: %w", err)
	}
	if err := cfg.Section("Species").MapTo(&config.Settings); err != nil {
		return nil, fmt.Errorf("failed to map [Species] section: %w", err)
	}
	return config, nil
}

func loadYAML(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	return config, nil
}
