package env

import (
	"bytes"
	"testing"

	"cdkdeploy/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAllVariables(t *testing.T) {
	environ := map[string]string{
		"CDK_ENV_KEY":        "Dev",
		"AWS_DEFAULT_REGION": "ap-northeast-1",
	}
	cfg, err := config.LoadFrom(environ, t.TempDir())
	require.NoError(t, err)

	var buf bytes.Buffer
	ShowAllVariables(&buf, environ, cfg)
	out := buf.String()

	assert.Contains(t, out, "  環境キー (CDK_ENV_KEY): Dev\n")
	assert.Contains(t, out, "  アプリケーションキー (CDK_APP_KEY): 未設定\n")
	assert.Contains(t, out, "  リージョン (AWS_REGION): 未設定 → ap-northeast-1\n")
	assert.Contains(t, out, "  cdkコマンド (CDK_DEPLOY_CDK_BIN): 未設定 → cdk\n")
	assert.Contains(t, out, "  ログレベル (CDK_DEPLOY_LOG_LEVEL): 未設定 → warn\n")
}
