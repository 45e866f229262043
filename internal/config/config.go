// Package config はプロセス起動時に一度だけ環境変数を読み込み、
// オーケストレーターへ渡す設定値を組み立てる。
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

const (
	// EnvNameAppKey はCDKアプリケーションの名前空間を指定する環境変数
	EnvNameAppKey = "CDK_APP_KEY"
	// EnvNameEnvKey はデプロイ先環境（Dev, Prodなど）を指定する環境変数
	EnvNameEnvKey = "CDK_ENV_KEY"

	// DefaultCdkBin は CDK_DEPLOY_CDK_BIN が未設定の場合に実行するコマンド
	DefaultCdkBin = "cdk"
)

// ErrEnvKeyRequired はCDK_ENV_KEYが必要な処理で未設定だった場合のエラー
var ErrEnvKeyRequired = errors.New("environment variable not found: " + EnvNameEnvKey)

// Config は環境変数から読み込んだ設定値
type Config struct {
	AppKey        string        `env:"CDK_APP_KEY"`
	EnvKey        string        `env:"CDK_ENV_KEY"`
	Region        string        `env:"AWS_REGION"`
	DefaultRegion string        `env:"AWS_DEFAULT_REGION"`
	Profile       string        `env:"AWS_PROFILE"`
	CdkBin        string        `env:"CDK_DEPLOY_CDK_BIN" envDefault:"cdk"`
	LogLevel      zapcore.Level `env:"CDK_DEPLOY_LOG_LEVEL" envDefault:"warn"`

	// WorkDir はcdk.jsonやデフォルトパラメータファイルを探すディレクトリ
	WorkDir string
}

// Load はプロセスの環境変数とカレントディレクトリから設定を読み込む
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return c, errors.Wrap(err, "環境変数の解析に失敗")
	}

	wd, err := os.Getwd()
	if err != nil {
		return c, errors.Wrap(err, "カレントディレクトリの取得に失敗")
	}
	c.WorkDir = wd

	c.Validate()
	return c, nil
}

// LoadFrom は指定した環境変数マップから設定を読み込む
func LoadFrom(environ map[string]string, workDir string) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Environment: environ}); err != nil {
		return c, errors.Wrap(err, "環境変数の解析に失敗")
	}
	c.WorkDir = workDir

	c.Validate()
	return c, nil
}

// Validate は読み込んだ値の補完を行う
// AWS_REGIONが未設定の場合はAWS_DEFAULT_REGIONを使う
func (c *Config) Validate() {
	if c.Region == "" {
		c.Region = c.DefaultRegion
	}
	if c.CdkBin == "" {
		c.CdkBin = DefaultCdkBin
	}
}

// RequireEnvKey はCDK_ENV_KEYを返す。未設定の場合はErrEnvKeyRequired
func (c Config) RequireEnvKey() (string, error) {
	if c.EnvKey == "" {
		return "", errors.WithStack(ErrEnvKeyRequired)
	}
	return c.EnvKey, nil
}

// ChildEnviron はサブプロセスへ渡す環境変数を組み立てる
// 親プロセスの環境変数に、解決済みのリージョンと指定したenvKeyを上書きする
func (c Config) ChildEnviron(base []string, envKey string) []string {
	environ := make([]string, 0, len(base)+3)
	for _, kv := range base {
		if hasKey(kv, EnvNameEnvKey) || (c.Region != "" && hasKey(kv, "AWS_REGION")) {
			continue
		}
		environ = append(environ, kv)
	}
	if c.Region != "" {
		environ = append(environ, "AWS_REGION="+c.Region)
	}
	if envKey != "" {
		environ = append(environ, EnvNameEnvKey+"="+envKey)
	}
	return environ
}

func hasKey(kv, key string) bool {
	return len(kv) > len(key) && kv[:len(key)] == key && kv[len(key)] == '='
}
