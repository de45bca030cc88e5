package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"satire-press-api/internal/config"
)

func TestEinoFactoryResolveAndMissingProvider(t *testing.T) {
	f := NewEinoFactory(&config.Config{LLM: config.LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]config.ProviderConfig{
			"openai":   {Model: "gpt-4o"},
			"deepseek": {Model: "deepseek-chat", APIKey: ""},
		},
	}})

	assert.Equal(t, "openai", f.Resolve(""))
	assert.Equal(t, "deepseek", f.Resolve("deepseek"))
	assert.Equal(t, []string{"deepseek", "openai"}, f.Providers())

	_, err := f.Get(context.Background(), "anthropic")
	assert.ErrorContains(t, err, "not found")

	_, err = f.Get(context.Background(), "")
	assert.ErrorContains(t, err, "no api key")
}
