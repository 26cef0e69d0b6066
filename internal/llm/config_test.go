package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, float32(0.1), config.Temperature)
}

func TestDefaultConfig_FreshInstances(t *testing.T) {
	first := DefaultConfig()
	first.Models[TierStandard] = "mutated"
	first.Temperature = 0.9

	second := DefaultConfig()
	assert.Equal(t, "gemini-2.5-flash", second.GetModel(TierStandard))
	assert.Equal(t, DefaultTemperature, second.Temperature)
}

func TestGetModel_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		models map[ModelTier]string
		tier   ModelTier
		want   string
	}{
		{
			name:   "exact tier",
			models: map[ModelTier]string{TierAdvanced: "pro", TierStandard: "flash"},
			tier:   TierAdvanced,
			want:   "pro",
		},
		{
			name:   "standard before lite",
			models: map[ModelTier]string{TierStandard: "flash", TierLite: "lite"},
			tier:   TierAdvanced,
			want:   "flash",
		},
		{
			name:   "lite as last resort",
			models: map[ModelTier]string{TierLite: "fallback-model"},
			tier:   "unknown",
			want:   "fallback-model",
		},
		{
			name:   "empty config",
			models: map[ModelTier]string{},
			tier:   TierAdvanced,
			want:   "",
		},
		{
			name: "nil models",
			tier: TierStandard,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.want, config.GetModel(tt.tier))
		})
	}
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.Provider, newConfig.Provider)
}

func TestWithModel_KeepsTemperature(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Temperature: 0.7}

	newConfig := config.WithModel(TierLite, "tiny")
	assert.Equal(t, float32(0.7), newConfig.Temperature)

	// Zero is a valid temperature and is not replaced by the default.
	zero := (&Config{Temperature: 0}).WithModel(TierLite, "tiny")
	assert.Zero(t, zero.Temperature)
}

func TestWithModel_CopiesModels(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-pro")

	newConfig.Models[TierLite] = "changed-after-copy"
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite), "original map untouched")

	config.Models[TierStandard] = "changed-in-original"
	assert.Equal(t, "gemini-2.5-flash", newConfig.GetModel(TierStandard), "copy untouched")
	assert.Len(t, newConfig.Models, 3)
}

func TestWithModel_NilModels(t *testing.T) {
	config := &Config{Provider: ProviderGemini}

	newConfig := config.WithModel(TierStandard, "only-model")
	require.NotNil(t, newConfig.Models)
	assert.Equal(t, "only-model", newConfig.GetModel(TierAdvanced))
	assert.Nil(t, config.Models)
}

func TestGeminiClient_NoModelForTier(t *testing.T) {
	client := &GeminiClient{config: &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}}

	_, err := client.GenerateJSON(context.Background(), "prompt", TierStandard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model configured for tier standard")

	_, err = client.GenerateContent(context.Background(), "prompt", TierLite)
	assert.Error(t, err)
	assert.Empty(t, client.GetModel(TierStandard))
	assert.NoError(t, client.Close())
}

func TestModelTierConstants(t *testing.T) {
	assert.Equal(t, ModelTier("lite"), TierLite)
	assert.Equal(t, ModelTier("standard"), TierStandard)
	assert.Equal(t, ModelTier("advanced"), TierAdvanced)
	assert.Equal(t, Provider("gemini"), ProviderGemini)
}
