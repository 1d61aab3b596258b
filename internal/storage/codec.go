package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"tspga/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Stamp sets the current schema and codec versions on a record.
func Stamp(record model.RunRecord) model.RunRecord {
	record.VersionedRecord = model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
	return record
}

func EncodeRun(record model.RunRecord) ([]byte, error) {
	if err := validateRun(record); err != nil {
		return nil, err
	}
	return json.Marshal(record)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var record model.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return record, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

func validateRun(record model.RunRecord) error {
	if strings.TrimSpace(record.ID) == "" {
		return errors.New("run id is required")
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return err
	}
	if len(record.Tour) != len(record.Points) {
		return fmt.Errorf("tour visits %d nodes, graph has %d", len(record.Tour), len(record.Points))
	}
	return nil
}

func sortSummaries(summaries []model.RunSummary) {
	slices.SortStableFunc(summaries, func(a, b model.RunSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
