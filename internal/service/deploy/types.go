package deploy

import (
	"context"
	"io"

	"cdkdeploy/internal/prompt"
	"cdkdeploy/internal/service/cdk"
	"cdkdeploy/internal/service/params"
	"cdkdeploy/internal/service/stacks"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// 選択肢・確認メッセージ
const (
	NewStacksChoice = "- create new Stacks -"
	DefaultEnvKey   = "Dev"

	ShowParametersChoice   = "show current parameters"
	ChangeParametersChoice = "change parameters"
	NoChangeChoice         = "no change"
)

// ErrDeployFailed は cdk deploy が失敗した場合のエラー
var ErrDeployFailed = errors.New("cdk deploy failed")

// ErrNoStacks は cdk list がスタックを1つも返さなかった場合のエラー
var ErrNoStacks = errors.New("no stacks found in the cdk app")

// ParameterStore はリモート（SSM）に保存したデプロイパラメータ
type ParameterStore interface {
	Load(ctx context.Context, appKey, envKey string) (params.Parameters, error)
	Write(ctx context.Context, appKey, envKey string, p params.Parameters, overwrite bool) error
}

// LocalCache はローカルに保存したデプロイパラメータ
type LocalCache interface {
	Load(appKey, envKey string) (params.Parameters, error)
	Write(appKey, envKey string, p params.Parameters) error
}

// StackIndex はデプロイ済みスタックの検出
type StackIndex interface {
	Discover(ctx context.Context, appKey string) (stacks.Index, error)
}

// Prompter は対話入力
type Prompter interface {
	Select(message string, choices []string) (string, error)
	MultiSelect(message string, choices []string) ([]string, error)
	Input(message, initial string) (string, error)
	Confirm(message string) (bool, error)
	Fields(message string, fields []prompt.Field) (map[string]string, error)
}

// Toolkit はCDK CLIの実行
type Toolkit interface {
	List(ctx context.Context, envKey string, args []string) ([]string, error)
	Diff(ctx context.Context, envKey string, args []string) cdk.Result
	Deploy(ctx context.Context, envKey string, stacks, args []string) cdk.Result
}

// Options はデプロイ実行時のオプション
type Options struct {
	AppKey  string
	WorkDir string
	// Args はcdkへそのまま渡す引数（--skip-diff を含んでもよい）
	Args []string

	Out      io.Writer
	Progress io.Writer
	Logger   *zap.Logger
}

// Outcome はデプロイ処理の結果
type Outcome struct {
	EnvKey     string
	IsNew      bool
	Parameters params.Parameters
	Stacks     []string
	// Diff は差分確認をスキップした場合は空
	Diff   cdk.Result
	Deploy cdk.Result
	// Aborted は利用者が途中で処理を中止した場合に true
	Aborted bool
}
