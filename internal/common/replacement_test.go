package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestReplaceKeyReferences(t *testing.T) {
	logger := arbor.NewLogger()
	kvMap := map[string]string{
		"gemini_api_key": "AIza-test",
		"model":          "gemini-2.0-flash",
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "{gemini_api_key}", "AIza-test"},
		{"embedded", "key={gemini_api_key};model={model}", "key=AIza-test;model=gemini-2.0-flash"},
		{"missing key unchanged", "{unknown}", "{unknown}"},
		{"invalid syntax unchanged", "{not valid}", "{not valid}"},
		{"no references", "plain", "plain"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceKeyReferences(tt.input, kvMap, logger))
		})
	}
}

func TestReplaceInStruct(t *testing.T) {
	logger := arbor.NewLogger()
	config := NewDefaultConfig()
	config.Gemini.APIKey = "{gemini_api_key}"
	config.Logging.Output = []string{"{log_target}"}

	err := ReplaceInStruct(config, map[string]string{
		"gemini_api_key": "AIza-test",
		"log_target":     "stdout",
	}, logger)
	require.NoError(t, err)

	assert.Equal(t, "AIza-test", config.Gemini.APIKey)
	assert.Equal(t, []string{"stdout"}, config.Logging.Output)
	assert.Equal(t, "Helvetica", config.Document.FontFamily)
}

func TestReplaceInStruct_RequiresStructPointer(t *testing.T) {
	logger := arbor.NewLogger()

	err := ReplaceInStruct(NewDefaultConfig().Server, nil, logger)
	assert.Error(t, err)

	s := "value"
	err = ReplaceInStruct(&s, nil, logger)
	assert.Error(t, err)
}
