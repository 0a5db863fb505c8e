package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1080, s.ResolutionW)
	assert.Equal(t, 1920, s.ResolutionH)
	assert.InDelta(t, 0.9, s.Opacity, 1e-9)
	assert.Zero(t, s.BackgroundAudioVolume)
	assert.False(t, s.EnableExtraAudio)
	assert.Equal(t, []string{"localhost:9093"}, s.KafkaBrokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RESOLUTION_W", "720")
	t.Setenv("RESOLUTION_H", "1280")
	t.Setenv("OPACITY", "0.5")
	t.Setenv("BACKGROUND_AUDIO_VOLUME", "0.15")
	t.Setenv("ENABLE_EXTRA_AUDIO", "true")
	t.Setenv("BACKGROUND_CREDIT", "bbswitzer")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "kafka1:9092,kafka2:9092")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 720, s.ResolutionW)
	assert.Equal(t, 1280, s.ResolutionH)
	assert.InDelta(t, 0.5, s.Opacity, 1e-9)
	assert.InDelta(t, 0.15, s.BackgroundAudioVolume, 1e-9)
	assert.True(t, s.EnableExtraAudio)
	assert.Equal(t, "bbswitzer", s.BackgroundCredit)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, s.KafkaBrokers)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("opacity out of range", func(t *testing.T) {
		t.Setenv("OPACITY", "1.5")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative volume", func(t *testing.T) {
		t.Setenv("BACKGROUND_AUDIO_VOLUME", "-0.2")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("garbage numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("RESOLUTION_W", "wide")
		s, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 1080, s.ResolutionW)
	})
}
