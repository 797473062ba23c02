package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"question_text":"q","answer":3}`, false},
		{"missing answer", `{"question_text":"q"}`, true},
		{"wrong type", `{"question_text":"q","answer":"three"}`, true},
		{"extra field", `{"question_text":"q","answer":3,"x":1}`, true},
		{"not json", `answer: 3`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(storySchema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			assert.True(t, errors.As(err, &inv), "expected ErrInvalidResponse, got %v", err)
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not even json`)))
}
