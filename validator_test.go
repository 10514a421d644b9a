package aisdk

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func algoOutput(score int, passed bool) string {
	return fmt.Sprintf(`{"score":%d,"passed":%t,"feedback":"solid work",`+
		`"details":{"correctness":20,"efficiency":18,"understanding":17,"clarity":15}}`, score, passed)
}

func TestValidator_PassRecomputedAtThreshold(t *testing.T) {
	v := NewChallengeValidator(&stubCompleter{output: algoOutput(70, false)})

	result, err := v.Validate(context.Background(), ChallengeAlgorithmic, "sort a list", "merge sort, O(n log n)", "I'd use merge sort")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Passed {
		t.Fatal("score 70 must pass even when the model says passed=false")
	}
	if result.Score != 70 {
		t.Fatalf("expected score 70, got %d", result.Score)
	}
}

func TestValidator_FailBelowThreshold(t *testing.T) {
	v := NewChallengeValidator(&stubCompleter{output: algoOutput(69, true)})

	result, err := v.Validate(context.Background(), ChallengeAlgorithmic, "spec", "ref", "submission")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Passed {
		t.Fatal("score 69 must fail even when the model says passed=true")
	}
}

func TestValidator_DetailsFlattened(t *testing.T) {
	v := NewChallengeValidator(&stubCompleter{output: algoOutput(70, true)})

	result, _ := v.Validate(context.Background(), ChallengeAlgorithmic, "spec", "ref", "submission")
	if result.Details["correctness"] != 20 || result.Details["clarity"] != 15 {
		t.Fatalf("unexpected details: %v", result.Details)
	}
	if len(result.Details) != 4 {
		t.Fatalf("expected four sub-scores, got %d", len(result.Details))
	}
}

func TestValidator_UnsupportedType(t *testing.T) {
	v := NewChallengeValidator(&stubCompleter{output: algoOutput(90, true)})

	_, err := v.Validate(context.Background(), ChallengeType("trivia"), "spec", "ref", "submission")
	if !errors.Is(err, ErrUnsupportedChallengeType) {
		t.Fatalf("expected ErrUnsupportedChallengeType, got %v", err)
	}
}

func TestValidator_CallFailureReturnsZeroScoreResult(t *testing.T) {
	v := NewChallengeValidator(&stubCompleter{err: errors.New("rate limited")})

	result, err := v.Validate(context.Background(), ChallengeSecurityAnalysis, "spec", "ref", "submission")
	if err != nil {
		t.Fatalf("call failure must not surface an error, got %v", err)
	}
	if result.Score != 0 || result.Passed {
		t.Fatalf("expected zero-score failure result, got %+v", result)
	}
	if result.Feedback == "" {
		t.Fatal("failure result must carry retry feedback")
	}
}

func TestValidator_MalformedOutputReturnsZeroScoreResult(t *testing.T) {
	v := NewChallengeValidator(&stubCompleter{output: "the submission looks great"})

	result, err := v.Validate(context.Background(), ChallengeDesign, "spec", "ref", "submission")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 0 || result.Passed {
		t.Fatalf("expected zero-score failure result, got %+v", result)
	}
}

func TestValidator_ScoreClampedToRange(t *testing.T) {
	v := NewChallengeValidator(&stubCompleter{
		output: `{"score":140,"passed":true,"feedback":"x","details":{"creativity":25,"coherence":25,"depth":25,"originality":25}}`,
	})

	result, _ := v.Validate(context.Background(), ChallengeCharacterDesign, "spec", "ref", "submission")
	if result.Score != 100 {
		t.Fatalf("expected score clamped to 100, got %d", result.Score)
	}
}

func TestValidator_EveryRubricHasSchema(t *testing.T) {
	for challengeType, r := range rubrics {
		if r.schema == nil {
			t.Errorf("rubric %s has no schema", challengeType)
		}
		if r.instructions == "" {
			t.Errorf("rubric %s has no instructions", challengeType)
		}
	}
}
