package aisdk

import (
	"context"
	"fmt"
	"log"
)

// ──────────────────────────────────────────────
// Challenge Validator — LLM rubric grading
// ──────────────────────────────────────────────

// PassThreshold is the hard business rule for passing a challenge. The
// model's own pass/fail opinion is advisory only; Passed is always
// recomputed from the score.
const PassThreshold = 70

const validatorTemperature = 0.3

// Per-rubric detail shapes. Each dimension is scored 0-25 and the four
// dimensions sum to the 0-100 score.

type algorithmicDetails struct {
	Correctness   int `json:"correctness" jsonschema:"minimum=0,maximum=25"`
	Efficiency    int `json:"efficiency" jsonschema:"minimum=0,maximum=25"`
	Understanding int `json:"understanding" jsonschema:"minimum=0,maximum=25"`
	Clarity       int `json:"clarity" jsonschema:"minimum=0,maximum=25"`
}

type securityDetails struct {
	ThreatIdentification int `json:"threatIdentification" jsonschema:"minimum=0,maximum=25"`
	RiskAssessment       int `json:"riskAssessment" jsonschema:"minimum=0,maximum=25"`
	Recommendations      int `json:"recommendations" jsonschema:"minimum=0,maximum=25"`
	Methodology          int `json:"methodology" jsonschema:"minimum=0,maximum=25"`
}

type designDetails struct {
	Architecture int `json:"architecture" jsonschema:"minimum=0,maximum=25"`
	Feasibility  int `json:"feasibility" jsonschema:"minimum=0,maximum=25"`
	Completeness int `json:"completeness" jsonschema:"minimum=0,maximum=25"`
	Innovation   int `json:"innovation" jsonschema:"minimum=0,maximum=25"`
}

type characterDetails struct {
	Creativity  int `json:"creativity" jsonschema:"minimum=0,maximum=25"`
	Coherence   int `json:"coherence" jsonschema:"minimum=0,maximum=25"`
	Depth       int `json:"depth" jsonschema:"minimum=0,maximum=25"`
	Originality int `json:"originality" jsonschema:"minimum=0,maximum=25"`
}

type rubricEnvelope[D any] struct {
	Score    int    `json:"score" jsonschema:"minimum=0,maximum=100"`
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
	Details  D      `json:"details"`
}

// rubric binds one challenge type to its grading template.
type rubric struct {
	schemaName   string
	schema       map[string]interface{}
	instructions string
	specLabel    string
	refLabel     string
	decode       func(output string) (score int, feedback string, details map[string]int, err error)
}

func decodeRubric[D any](output string, flatten func(D) map[string]int) (int, string, map[string]int, error) {
	var env rubricEnvelope[D]
	if err := decodeModelJSON(output, &env); err != nil {
		return 0, "", nil, err
	}
	return env.Score, env.Feedback, flatten(env.Details), nil
}

const rubricPreamble = `You are a strict, fair grader for a gamified challenge platform.
Score the user's submission against the reference material. Each of the four dimensions below is worth 0-25 points; the total score is their sum (0-100).
Be concrete in the feedback: name what was right, what was missing, and what to improve.
Return strict JSON only.`

var rubrics = map[ChallengeType]*rubric{
	ChallengeAlgorithmic: {
		schemaName: "algorithmic_rubric",
		schema:     GenerateSchema[rubricEnvelope[algorithmicDetails]](),
		instructions: rubricPreamble + `

Dimensions:
- correctness: does the approach solve the stated problem, including edge cases
- efficiency: time/space complexity relative to the reference algorithm
- understanding: does the user grasp why the approach works
- clarity: how clearly the solution is explained`,
		specLabel: "Problem statement and constraints",
		refLabel:  "Reference solution (algorithm and complexity)",
		decode: func(out string) (int, string, map[string]int, error) {
			return decodeRubric(out, func(d algorithmicDetails) map[string]int {
				return map[string]int{
					"correctness":   d.Correctness,
					"efficiency":    d.Efficiency,
					"understanding": d.Understanding,
					"clarity":       d.Clarity,
				}
			})
		},
	},
	ChallengeSecurityAnalysis: {
		schemaName: "security_rubric",
		schema:     GenerateSchema[rubricEnvelope[securityDetails]](),
		instructions: rubricPreamble + `

Dimensions:
- threatIdentification: which vulnerabilities and attack surfaces were found
- riskAssessment: severity and likelihood judgment against the reference risk profile
- recommendations: quality and practicality of proposed mitigations
- methodology: rigor and structure of the analysis approach`,
		specLabel: "Scenario and requirements",
		refLabel:  "Reference analysis (vulnerabilities and risk profile)",
		decode: func(out string) (int, string, map[string]int, error) {
			return decodeRubric(out, func(d securityDetails) map[string]int {
				return map[string]int{
					"threatIdentification": d.ThreatIdentification,
					"riskAssessment":       d.RiskAssessment,
					"recommendations":      d.Recommendations,
					"methodology":          d.Methodology,
				}
			})
		},
	},
	ChallengeDesign: {
		schemaName: "design_rubric",
		schema:     GenerateSchema[rubricEnvelope[designDetails]](),
		instructions: rubricPreamble + `

Dimensions:
- architecture: soundness of the proposed structure and its trade-offs
- feasibility: could this be built as described within the stated constraints
- completeness: coverage of the brief's requirements
- innovation: originality beyond the obvious solution`,
		specLabel: "Design brief and constraints",
		refLabel:  "Reference design (evaluation criteria)",
		decode: func(out string) (int, string, map[string]int, error) {
			return decodeRubric(out, func(d designDetails) map[string]int {
				return map[string]int{
					"architecture": d.Architecture,
					"feasibility":  d.Feasibility,
					"completeness": d.Completeness,
					"innovation":   d.Innovation,
				}
			})
		},
	},
	ChallengeCharacterDesign: {
		schemaName: "character_rubric",
		schema:     GenerateSchema[rubricEnvelope[characterDetails]](),
		instructions: rubricPreamble + `

Dimensions:
- creativity: inventiveness of the character concept
- coherence: internal consistency of traits, backstory, and motivation
- depth: emotional and narrative richness
- originality: distance from stock archetypes and the reference example`,
		specLabel: "Character brief",
		refLabel:  "Reference character (evaluation criteria)",
		decode: func(out string) (int, string, map[string]int, error) {
			return decodeRubric(out, func(d characterDetails) map[string]int {
				return map[string]int{
					"creativity":  d.Creativity,
					"coherence":   d.Coherence,
					"depth":       d.Depth,
					"originality": d.Originality,
				}
			})
		},
	},
}

// FailedValidationResult is the fixed result substituted when the
// grading call fails. Surfaced to the user as a retryable error, never
// as a false verdict.
func FailedValidationResult() *ValidationResult {
	return &ValidationResult{
		Score:    0,
		Passed:   false,
		Feedback: "We couldn't evaluate your submission due to a temporary error. Please retry.",
	}
}

// ChallengeValidator grades free-text submissions with an LLM rubric.
type ChallengeValidator struct {
	completer Completer
}

// NewChallengeValidator creates a validator on top of a Completer.
func NewChallengeValidator(completer Completer) *ChallengeValidator {
	return &ChallengeValidator{completer: completer}
}

// Validate grades one submission. An unrecognized challengeType is a
// configuration error and returns ErrUnsupportedChallengeType; any model
// failure returns FailedValidationResult with a nil error, since the
// caller always expects a well-formed result on this path.
func (v *ChallengeValidator) Validate(ctx context.Context, challengeType ChallengeType, challengeSpec, referenceSolution, submission string) (*ValidationResult, error) {
	r, ok := rubrics[challengeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChallengeType, challengeType)
	}

	input := fmt.Sprintf("## %s\n\n%s\n\n## %s\n\n%s\n\n## User submission\n\n%s",
		r.specLabel, challengeSpec, r.refLabel, referenceSolution, submission)

	out, err := v.completer.Complete(ctx, CompletionRequest{
		Instructions: r.instructions,
		Input:        input,
		Temperature:  validatorTemperature,
		MaxTokens:    800,
		SchemaName:   r.schemaName,
		Schema:       r.schema,
	})
	if err != nil {
		log.Printf("[ChallengeValidator] grading call failed for type=%s: %v", challengeType, err)
		return FailedValidationResult(), nil
	}

	score, feedback, details, err := r.decode(out)
	if err != nil {
		log.Printf("[ChallengeValidator] malformed grading output for type=%s: %v", challengeType, err)
		return FailedValidationResult(), nil
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &ValidationResult{
		Score:    score,
		Passed:   score >= PassThreshold,
		Feedback: feedback,
		Details:  details,
	}, nil
}
