package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/extract"
)

func TestFindDuplicateMembers(t *testing.T) {
	type args struct {
		members   []extract.Member
		threshold float64
	}

	type testCase struct {
		name string
		args args
		want [][2]int
	}

	john := extract.Member{FirstName: "JOHN", LastName: "DOE", DateOfBirth: "19800115"}

	tests := []testCase{
		{
			name: "ExactDuplicate",
			args: args{
				members:   []extract.Member{john, {FirstName: "Jane", LastName: "Roe"}, john},
				threshold: extract.DefaultDuplicateSimilarity,
			},
			want: [][2]int{{0, 2}},
		},
		{
			name: "TypoWithinThreshold",
			args: args{
				members:   []extract.Member{john, {FirstName: "JON", LastName: "DOE", DateOfBirth: "19800115"}},
				threshold: extract.DefaultDuplicateSimilarity,
			},
			want: [][2]int{{0, 1}},
		},
		{
			name: "PunctuationIgnored",
			args: args{
				members:   []extract.Member{{FirstName: "MARY-ANN", LastName: "O'BRIEN", DateOfBirth: "1"}, {FirstName: "Mary Ann", LastName: "OBrien", DateOfBirth: "1"}},
				threshold: extract.DefaultDuplicateSimilarity,
			},
			want: [][2]int{{0, 1}},
		},
		{
			name: "DifferentBirthDate",
			args: args{
				members:   []extract.Member{john, {FirstName: "JOHN", LastName: "DOE", DateOfBirth: "19800116"}},
				threshold: extract.DefaultDuplicateSimilarity,
			},
			want: nil,
		},
		{
			name: "DifferentName",
			args: args{
				members:   []extract.Member{john, {FirstName: "PETER", LastName: "SMITH", DateOfBirth: "19800115"}},
				threshold: extract.DefaultDuplicateSimilarity,
			},
			want: nil,
		},
		{
			name: "MissingBirthDate",
			args: args{
				members:   []extract.Member{{FirstName: "A", LastName: "B"}, {FirstName: "A", LastName: "B"}},
				threshold: extract.DefaultDuplicateSimilarity,
			},
			want: nil,
		},
		{
			name: "StricterThreshold",
			args: args{
				members:   []extract.Member{john, {FirstName: "JON", LastName: "DOE", DateOfBirth: "19800115"}},
				threshold: 0.95,
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := extract.FindDuplicateMembers(tt.args.members, tt.args.threshold)

			var got [][2]int
			for _, p := range pairs {
				got = append(got, [2]int{p.First, p.Second})
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindDuplicateMembers_Similarity(t *testing.T) {
	members := []extract.Member{
		{FirstName: "JOHN", LastName: "DOE", DateOfBirth: "1"},
		{FirstName: "JOHN", LastName: "DOE", DateOfBirth: "1"},
	}

	pairs := extract.FindDuplicateMembers(members, extract.DefaultDuplicateSimilarity)
	require.Len(t, pairs, 1)
	assert.InDelta(t, 1.0, pairs[0].Similarity, 1e-9)
}
