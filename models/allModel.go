package models

// AllModels lists every persisted entity for migration, in dependency order.
func AllModels() []any {
	return []any{
		&Document{},
		&ExtractedLine{},
		&CanonicalIdentity{},
		&Merge{},
		&ApprovalDecision{},
		&GroundTruthLine{},
		&ValidationResult{},
	}
}
