package env

import "cdkdeploy/internal/config"

// Variable はcdkdeployが参照する環境変数の情報を表す構造体
type Variable struct {
	Name        string // 環境変数名 (e.g., CDK_ENV_KEY)
	Description string // 説明
	// Resolved は設定読み込み後の値（既定値・フォールバック適用後）
	Resolved func(c config.Config) string
}

// SupportedVariables は表示順に並べた環境変数
var SupportedVariables = []Variable{
	{
		Name:        config.EnvNameAppKey,
		Description: "アプリケーションキー",
		Resolved:    func(c config.Config) string { return c.AppKey },
	},
	{
		Name:        config.EnvNameEnvKey,
		Description: "環境キー",
		Resolved:    func(c config.Config) string { return c.EnvKey },
	},
	{
		Name:        "AWS_PROFILE",
		Description: "プロファイル",
		Resolved:    func(c config.Config) string { return c.Profile },
	},
	{
		Name:        "AWS_REGION",
		Description: "リージョン",
		Resolved:    func(c config.Config) string { return c.Region },
	},
	{
		Name:        "CDK_DEPLOY_CDK_BIN",
		Description: "cdkコマンド",
		Resolved:    func(c config.Config) string { return c.CdkBin },
	},
	{
		Name:        "CDK_DEPLOY_LOG_LEVEL",
		Description: "ログレベル",
		Resolved:    func(c config.Config) string { return c.LogLevel.String() },
	},
}
