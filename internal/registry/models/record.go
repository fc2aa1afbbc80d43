package models

import "time"

// Field bounds enforced on every write path. There is exactly one rule set;
// registration, revision, and label augmentation all go through it.
const (
	DesignationMaxLen = 64
	SummaryMaxLen     = 128
	LabelMaxLen       = 32
	LabelCapacity     = 10

	// FootprintLimit is exclusive: valid footprints are 1..FootprintLimit-1.
	FootprintLimit = 1_000_000_000
)

// ArchivalLabel is appended by the archival marking operation.
const ArchivalLabel = "HISTORICAL-RECORD"

// ProvenanceRecord is the unit of state in the registry. The identifier and
// genesis timestamp are immutable for the record's entire lifetime; custody
// transfer changes only the custodian field.
type ProvenanceRecord struct {
	ID                   uint64    `json:"record_identifier"`
	AssetDesignation     string    `json:"asset_designation"`
	Custodian            string    `json:"custodian"`
	BinaryFootprint      uint64    `json:"binary_footprint"`
	GenesisTimestamp     time.Time `json:"genesis_timestamp"`
	DescriptiveSummary   string    `json:"descriptive_summary"`
	ClassificationLabels []string  `json:"classification_labels"`
}

// Clone returns a deep copy so store internals never alias caller slices.
func (r *ProvenanceRecord) Clone() *ProvenanceRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.ClassificationLabels = append([]string(nil), r.ClassificationLabels...)
	return &cp
}

// Analytics is the read-only summary returned to authorized principals.
type Analytics struct {
	Age        int64  `json:"age"` // seconds since genesis
	Footprint  uint64 `json:"footprint"`
	LabelCount int    `json:"label_count"`
}

// Verification reports whether a claimed custodian matches the actual one.
// A mismatch is a normal successful outcome, never an error. Confirmed
// duplicates Matches; the original wire contract carried the flag twice and
// clients depend on both fields.
type Verification struct {
	Matches   bool      `json:"matches"`
	CheckedAt time.Time `json:"checked_at"`
	Age       int64     `json:"age"`
	Confirmed bool      `json:"confirmed"`
}

// Diagnostics is the administrator-only health summary. TotalRecords is the
// current sequence value: an upper bound on records ever created, not the
// live count, since elimination never decrements the sequence.
type Diagnostics struct {
	TotalRecords uint64    `json:"total_records"`
	Healthy      bool      `json:"healthy"`
	Timestamp    time.Time `json:"timestamp"`
}
