package tagmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		question string
		response string
		want     Tag
	}{
		{
			name:     "race_white",
			question: "race",
			response: "White",
			want:     Tag{Kind: KindSurvey, QuestionID: 371853, ResponseID: 1529982},
		},
		{
			name:     "language_with_trailing_space",
			question: "languages",
			response: "Urdu ",
			want:     Tag{Kind: KindSurvey, QuestionID: 371847, ResponseID: 1529964},
		},
		{
			name:     "poll_watcher_question_override",
			question: "volunteer_opportunities",
			response: "Serve as a poll watcher",
			want:     Tag{Kind: KindSurvey, QuestionID: 485979, ResponseID: 1984071},
		},
		{
			name:     "sibling_keeps_category_question",
			question: "volunteer_opportunities",
			response: "Blockwalk",
			want:     Tag{Kind: KindSurvey, QuestionID: 371846, ResponseID: 1529944},
		},
		{
			name:     "lawyer_is_activist_code",
			question: "identity",
			response: "Lawyer/Legal Professional",
			want:     Tag{Kind: KindActivistCode, ActivistCodeID: 4700612},
		},
		{
			name:     "unknown_question",
			question: "gender",
			response: "Man",
			want:     Tag{},
		},
		{
			name:     "unknown_response_in_known_question",
			question: "race",
			response: "Other",
			want:     Tag{},
		},
		{
			name:     "empty_pair",
			question: "",
			response: "",
			want:     Tag{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.question, tt.response))
		})
	}
}

func TestResolveSharedNativeResponseID(t *testing.T) {
	a := Resolve("race", "Native American or Alaska Native")
	b := Resolve("race", "Native Hawaiian or Other Pacific Islander")
	assert.Equal(t, KindSurvey, a.Kind)
	assert.Equal(t, a.ResponseID, b.ResponseID)
}
