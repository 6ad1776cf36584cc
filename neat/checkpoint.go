package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// PopulationSaveData holds the parts of a Population written to a checkpoint.
// The random source is not saved; callers resuming a run supply their own.
type PopulationSaveData struct {
	Shape       Shape
	Settings    Settings
	Genomes     []*Genome
	Species     []*Species
	Innovations *InnovationTracker
	Generation  int
	Best        *Genome
}

// SaveCheckpoint saves the current state of the Population to a file.
// Uses gzip compression for smaller file size.
func (p *Population) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	saveData := PopulationSaveData{
		Shape:       p.Shape,
		Settings:    p.Settings,
		Genomes:     p.Genomes,
		Species:     p.Species,
		Innovations: p.Innovations,
		Generation:  p.Generation,
		Best:        p.Best,
	}
	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode population data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint file '%s': %w", filePath, err)
	}

	p.logger.Info("checkpoint saved", "path", filePath, "generation", p.Generation)
	return nil
}

// LoadCheckpoint restores a Population from a checkpoint file written by
// SaveCheckpoint.
func LoadCheckpoint(checkpointPath string, opts ...Option) (*Population, error) {
	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", checkpointPath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	saveData := PopulationSaveData{}
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, fmt.Errorf("failed to decode population data from checkpoint: %w", err)
	}
	if len(saveData.Genomes) == 0 {
		return nil, fmt.Errorf("checkpoint '%s': %w", checkpointPath, ErrEmptyPopulation)
	}
	for i, g := range saveData.Genomes {
		if g.ID != GenomeID(i) {
			return nil, fmt.Errorf("checkpoint '%s': genome in slot %d has ID %d", checkpointPath, i, g.ID)
		}
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("checkpoint '%s': %w", checkpointPath, err)
		}
	}
	if saveData.Innovations == nil {
		return nil, fmt.Errorf("checkpoint '%s' has no innovation tracker", checkpointPath)
	}
	// gob leaves empty maps nil.
	if saveData.Innovations.Genes == nil {
		saveData.Innovations.Genes = make(map[ConnectionKey]int)
	}
	if saveData.Innovations.Splits == nil {
		saveData.Innovations.Splits = make(map[ConnectionKey][]NodeID)
	}

	p := &Population{
		Shape:       saveData.Shape,
		Settings:    saveData.Settings,
		Genomes:     saveData.Genomes,
		Species:     saveData.Species,
		Innovations: saveData.Innovations,
		Generation:  saveData.Generation,
		Best:        saveData.Best,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger.Info("checkpoint loaded", "path", checkpointPath, "generation", p.Generation)
	return p, nil
}

// EncodeGenome writes a single genome in the checkpoint encoding.
func EncodeGenome(w io.Writer, g *Genome) error {
	if err := gob.NewEncoder(w).Encode(g); err != nil {
		return fmt.Errorf("failed to encode genome %d: %w", g.ID, err)
	}
	return nil
}

// DecodeGenome reads a genome written by EncodeGenome.
func DecodeGenome(r io.Reader) (*Genome, error) {
	g := &Genome{}
	if err := gob.NewDecoder(r).Decode(g); err != nil {
		return nil, fmt.Errorf("failed to decode genome: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
