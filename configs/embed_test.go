package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/rovclock/internal/config"
)

func TestDefault_Valid(t *testing.T) {
	cfg, err := config.ParseAppConfig(Default())
	require.NoError(t, err)
	require.NotNil(t, cfg.Clock)
	assert.Equal(t, "system", *cfg.Clock.Mode)

	require.NoError(t, config.Validate(config.NewProvider(cfg)))
}
