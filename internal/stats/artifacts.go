package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"tspga/internal/graph"
	"tspga/internal/model"
	"tspga/internal/tour"
)

const (
	configFile    = "config.json"
	historyFile   = "score_history.json"
	summariesFile = "generation_summaries.json"
	seriesFile    = "score_series.csv"
	solutionFile  = "solution.txt"
)

// WriteRunArtifacts exports a stored run into baseDir/<run id> and returns
// the directory.
func WriteRunArtifacts(baseDir string, record model.RunRecord) (string, error) {
	if record.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, record.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, configFile), record.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, historyFile), map[string]any{
		"best_by_generation": record.BestByGeneration,
		"best_score":         record.BestScore,
		"stop_reason":        record.StopReason,
	}); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, summariesFile), record.Summaries); err != nil {
		return "", err
	}
	if err := WriteScoreSeries(runDir, record.Summaries); err != nil {
		return "", err
	}
	if len(record.Tour) > 0 {
		g := graph.New(record.Points)
		if err := tour.SaveSolution(filepath.Join(runDir, solutionFile), g, tour.Of(record.Tour)); err != nil {
			return "", err
		}
	}
	return runDir, nil
}

// WriteScoreSeries writes one CSV row of distribution statistics per
// generation.
func WriteScoreSeries(runDir string, summaries []Summary) error {
	path := filepath.Join(runDir, seriesFile)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"generation", "min", "q10", "q25", "median", "q75", "max", "mean", "std_dev"}); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{strconv.Itoa(s.Generation)}
		for _, v := range []float64{s.Min, s.Q10, s.Q25, s.Median, s.Q75, s.Max, s.Mean, s.StdDev} {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadScoreSeries reads back the per-generation minimum column.
func ReadScoreSeries(runDir string) ([]float64, bool, error) {
	file, err := os.Open(filepath.Join(runDir, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []float64{}, true, nil
		}
		return nil, false, err
	}
	if len(header) < 2 {
		return nil, false, fmt.Errorf("score series header must have at least 2 columns")
	}

	series := make([]float64, 0, 128)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, err
		}
		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, false, err
		}
		series = append(series, value)
	}
	return series, true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
