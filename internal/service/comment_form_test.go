package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentInputValidate(t *testing.T) {
	tests := []struct {
		name       string
		input      CommentInput
		wantFields []string
	}{
		{
			name:  "valid",
			input: CommentInput{Name: "Ada", Email: "ada@example.com", Body: "Nice"},
		},
		{
			name:       "all blank",
			input:      CommentInput{Name: " ", Email: "", Body: "\n"},
			wantFields: []string{"name", "email", "body"},
		},
		{
			name:       "bad email",
			input:      CommentInput{Name: "Ada", Email: "not-an-email", Body: "Nice"},
			wantFields: []string{"email"},
		},
		{
			name:       "name too long",
			input:      CommentInput{Name: strings.Repeat("a", 256), Email: "ada@example.com", Body: "Nice"},
			wantFields: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidComment))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.Fields, field)
			}
		})
	}
}

func TestCommentInputMessages(t *testing.T) {
	err := CommentInput{Name: strings.Repeat("x", 300), Email: "bad", Body: ""}.Validate()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Ensure this value has at most 255 characters.", verr.Fields["name"])
	assert.Equal(t, "Enter a valid email address.", verr.Fields["email"])
	assert.Equal(t, "This field is required.", verr.Fields["body"])
	assert.Equal(t, "invalid comment: body, email, name", verr.Error())
}

func TestCommentInputNormalized(t *testing.T) {
	got := CommentInput{Name: " Ada ", Email: " ada@example.com\t", Body: "\nhello\n"}.Normalized()
	assert.Equal(t, CommentInput{Name: "Ada", Email: "ada@example.com", Body: "hello"}, got)
}
