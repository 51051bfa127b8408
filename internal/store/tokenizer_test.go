package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_LowercasesAndSplits(t *testing.T) {
	// Given: mixed-case text with punctuation
	text := "Amazon S3, boto3; and EC2!"

	// When: tokenizing
	tokens := Tokenize(text)

	// Then: lowercase terms, punctuation stripped
	assert.Equal(t, []string{"amazon", "s3", "boto3", "and", "ec2"}, tokens)
}

func TestTokenize_DropsShortTokens(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single characters dropped",
			input:  "a b is ok",
			expect: []string{"is", "ok"},
		},
		{
			name:   "empty input",
			input:  "",
			expect: []string{},
		},
		{
			name:   "punctuation only",
			input:  "... --- !!!",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Tokenize(tt.input))
		})
	}
}

func TestTokenize_KeepsUnderscoreIdentifiers(t *testing.T) {
	// Code snippets are searchable with the same rules as prose.
	tokens := Tokenize("resource \"aws_instance\" \"web\" {}")
	assert.Equal(t, []string{"resource", "aws_instance", "web"}, tokens)
}

func TestTokenize_Deterministic(t *testing.T) {
	text := "# Heading\nsome body text with boto3\n"
	assert.Equal(t, Tokenize(text), Tokenize(text))
}

func TestFilterStopTerms(t *testing.T) {
	tokens := []string{"the", "index", "and", "query"}
	stop := BuildStopTermSet([]string{"the", "AND"})

	result := FilterStopTerms(tokens, stop)

	assert.Equal(t, []string{"index", "query"}, result)
}

func TestFilterStopTerms_EmptySetIsNoop(t *testing.T) {
	tokens := []string{"keep", "everything"}
	assert.Equal(t, tokens, FilterStopTerms(tokens, nil))
}

func TestUniqueTerms_PreservesOrder(t *testing.T) {
	terms := uniqueTerms([]string{"s3", "aws", "s3", "sql", "aws"})
	require.Equal(t, []string{"s3", "aws", "sql"}, terms)
}
