package dto

type IdentifierSource string

const (
	IdentifierSupplied  IdentifierSource = "supplied"
	IdentifierGenerated IdentifierSource = "generated"
)

// Identifier is the subject an evaluation is bucketed on, tagged with where it came from.
type Identifier struct {
	Value  string
	Source IdentifierSource
}

type EvaluationResult struct {
	Evaluation bool
	Identifier Identifier
}
