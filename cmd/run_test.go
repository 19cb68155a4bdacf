package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ArnaudCalmettes/deflicker/deflicker"
	"github.com/ArnaudCalmettes/deflicker/input"
	"github.com/ArnaudCalmettes/deflicker/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWidth(t *testing.T) {
	w, err := parseWidth("7")
	require.NoError(t, err)
	assert.Equal(t, 7, w)

	for _, s := range []string{"0", "-2", "three", ""} {
		_, err := parseWidth(s)
		assert.Error(t, err, s)
	}
}

func TestLoadConfig(t *testing.T) {
	viper.Set("plot", "series.png")
	viper.Set("adjust", "out")
	viper.Set("workers", 3)
	viper.Set("relax.max-iterations", 50)
	defer viper.Reset()

	cfg, err := loadConfig([]string{"frames", "5"})
	require.NoError(t, err)
	assert.Equal(t, "frames", cfg.Directory)
	assert.Equal(t, 5, cfg.Width)
	assert.Equal(t, deflicker.ModeBoth, cfg.Mode())
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 50, cfg.Relax.MaxIterations)
	assert.NotNil(t, cfg.Logger)

	_, err = loadConfig([]string{"frames", "zero"})
	assert.Error(t, err)
}

func TestReportLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewZerolog(&buf, zerolog.InfoLevel)

	assert.NoError(t, report(log, nil))
	assert.Zero(t, buf.Len())

	err := report(log, input.ErrEmptySequence)
	assert.True(t, errors.Is(err, errReported))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "deflicker", entry["component"])
	assert.Contains(t, entry["error"], "no numbered image")
}
