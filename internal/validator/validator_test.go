package validator

import (
	"errors"
	"testing"

	apperrors "github.com/SAP-F-2025/progress-service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trendQuery struct {
	StudentID string `json:"student_id" validate:"required,not_blank"`
	Metric    string `json:"metric" validate:"required,trend_metric"`
	Language  string `form:"language" validate:"omitempty,language_tag"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		input     trendQuery
		wantField string
		wantRule  string
	}{
		{name: "valid course metric", input: trendQuery{StudentID: "s-1", Metric: "course"}},
		{name: "valid chapter metric with region language", input: trendQuery{StudentID: "s-1", Metric: "lessonChapter", Language: "pt-BR"}},
		{name: "unknown metric", input: trendQuery{StudentID: "s-1", Metric: "quiz"}, wantField: "metric", wantRule: "trend_metric"},
		{name: "blank student", input: trendQuery{StudentID: "   ", Metric: "course"}, wantField: "student_id", wantRule: "not_blank"},
		{name: "malformed language", input: trendQuery{StudentID: "s-1", Metric: "course", Language: "english!"}, wantField: "language", wantRule: "language_tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantRule == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.Equal(t, tt.wantRule, errs[0].Rule)
		})
	}
}
