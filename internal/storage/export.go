package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravsim/internal/sim"
)

type ExportSample struct {
	Time     float64    `json:"time"`
	Live     int        `json:"live"`
	Mass     float64    `json:"mass"`
	Momentum [3]float64 `json:"momentum"`
	Energy   float64    `json:"energy"`
}

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples []ExportSample `json:"samples"`
}

// NewExportData pairs a run's metadata with its samples.
func NewExportData(meta RunMetadata, samples []sim.Sample) ExportData {
	data := ExportData{
		Run:     meta,
		Samples: make([]ExportSample, len(samples)),
	}
	for i, sm := range samples {
		data.Samples[i] = ExportSample{
			Time:     sm.Time,
			Live:     sm.Live,
			Mass:     sm.Mass,
			Momentum: [3]float64(sm.Momentum),
			Energy:   sm.Energy,
		}
	}
	return data
}

// ExportJSON writes a run as indented JSON to w.
func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, samples))
}

// ExportJSONFile writes a run as indented JSON to path.
func ExportJSONFile(path string, meta RunMetadata, samples []sim.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, meta, samples)
}
