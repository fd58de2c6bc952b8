package importer

// Outcome is the closed result set of a per-record upsert decision.
type Outcome int

const (
	// OutcomeProcessed means a source was created or force-updated.
	OutcomeProcessed Outcome = iota
	// OutcomeDuplicate means the source already existed and was left
	// untouched.
	OutcomeDuplicate
	// OutcomeSkipped means the record failed validation and never
	// reached persistence.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeSkipped:
		return "skipped"
	}
	return "unknown"
}
