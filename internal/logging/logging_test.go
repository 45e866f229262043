package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(zapcore.WarnLevel, &buf)

	logger.Debug("hidden")
	logger.Warn("shown", zap.String("name", "/CDK/Dev/CdkDeployParametersString"))
	_ = logger.Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "/CDK/Dev/CdkDeployParametersString")
}

func TestNew_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(zapcore.DebugLevel, &buf)

	logger.Debug("cdk list")
	assert.Contains(t, buf.String(), "cdk list")
}
