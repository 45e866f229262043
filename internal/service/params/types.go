package params

// Parameters はデプロイパラメータ（パラメータ名 → 値）
type Parameters map[string]string

const (
	// SkipDiffOption はcdk diffを省略するためのオプション（cdkへは渡さない）
	SkipDiffOption = "--skip-diff"
	// SingletonPrefix は全環境で共有するSingletonスタックのタグ値の接頭辞
	SingletonPrefix = "SINGLETON__"
	// DeployParametersKey はSSM上でデプロイパラメータを保持するキー
	DeployParametersKey = "CdkDeployParametersString"
	// DefaultFileName はパラメータの定義（キーと既定値）を記述するファイル
	DefaultFileName = "cdk.parameters.default.env"

	defaultFilePlaceholder = "#REMOVAL_POLICY=retain"
	defaultTagName         = "CdkEnvKey"
	defaultOutputDir       = "cdk.out"
	cdkJSONFileName        = "cdk.json"
)
