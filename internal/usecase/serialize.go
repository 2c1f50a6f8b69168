package usecase

import (
	"encoding/json"

	"github.com/location-microservice/internal/domain"
)

// SerializeRecord renders a PoiRecord as the self-describing textual object
// the result-queue carries (§6.1): a JSON object whose keys match the
// Poi-table column names domain.PoiRecord's tags already use.
func SerializeRecord(record domain.PoiRecord) string {
	b, err := json.Marshal(record)
	if err != nil {
		// PoiRecord has no cyclic or unexported fields; Marshal cannot fail.
		panic(err)
	}
	return string(b)
}

// DeserializeRecord parses a result-queue element back into a PoiRecord
// (the persistence worker's counterpart to SerializeRecord).
func DeserializeRecord(serialized string) (domain.PoiRecord, error) {
	var record domain.PoiRecord
	err := json.Unmarshal([]byte(serialized), &record)
	return record, err
}
