package storage

import (
	"encoding/json"
	"errors"

	"github.com/baldhumanity/neuroevo/evo"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeSummary(s evo.Summary) ([]byte, error) {
	return json.Marshal(generationRecord{VersionedRecord: CurrentVersion(), Summary: s})
}

func DecodeSummary(data []byte) (evo.Summary, error) {
	var record generationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return evo.Summary{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return evo.Summary{}, err
	}
	return record.Summary, nil
}

// EncodeChampion stamps c with the current version before encoding.
func EncodeChampion(c Champion) ([]byte, error) {
	c.VersionedRecord = CurrentVersion()
	return json.Marshal(c)
}

func DecodeChampion(data []byte) (Champion, error) {
	var champion Champion
	if err := json.Unmarshal(data, &champion); err != nil {
		return Champion{}, err
	}
	if err := checkVersion(champion.VersionedRecord); err != nil {
		return Champion{}, err
	}
	return champion, nil
}

func checkVersion(v VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
