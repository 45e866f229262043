package cdk

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cdkdeploy/internal/cli"
	"cdkdeploy/internal/config"
	"cdkdeploy/internal/service/common"
	"cdkdeploy/internal/service/params"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Result はcdkコマンドの実行結果
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailed  Result = "failed"
)

// Toolkit はCDK CLI（list / diff / deploy）をサブプロセスとして実行する
type Toolkit struct {
	Bin string
	Dir string
	// Environ は環境キーを受け取り、サブプロセスに渡す環境変数を返す
	Environ func(envKey string) []string

	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// NewToolkit は設定からToolkitを作成する
func NewToolkit(cfg config.Config, logger *zap.Logger) *Toolkit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Toolkit{
		Bin: cfg.CdkBin,
		Dir: cfg.WorkDir,
		Environ: func(envKey string) []string {
			return cfg.ChildEnviron(os.Environ(), envKey)
		},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// SplitArgs はcdkへ渡す引数から --skip-diff を取り除き、指定されていたかを返す
func SplitArgs(args []string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	skipDiff := false
	for _, a := range args {
		if a == params.SkipDiffOption {
			skipDiff = true
			continue
		}
		rest = append(rest, a)
	}
	return rest, skipDiff
}

// List は `cdk list` を実行し、スタック名を返す
func (t *Toolkit) List(ctx context.Context, envKey string, args []string) ([]string, error) {
	cmd := t.command(envKey, append([]string{"list"}, args...))
	t.logger().Debug("cdk list", zap.String("cmd", cmd.String()), zap.String("envKey", envKey))

	out, err := cmd.Output(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cdk list")
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Diff は `cdk diff` を実行する。失敗しても処理は継続するため結果のみ返す
func (t *Toolkit) Diff(ctx context.Context, envKey string, args []string) Result {
	return t.run(ctx, envKey, append([]string{"diff"}, args...))
}

// Deploy は選択したスタックに対して `cdk deploy` を実行する
func (t *Toolkit) Deploy(ctx context.Context, envKey string, stacks, args []string) Result {
	cmdArgs := make([]string, 0, 1+len(stacks)+len(args))
	cmdArgs = append(cmdArgs, "deploy")
	cmdArgs = append(cmdArgs, stacks...)
	cmdArgs = append(cmdArgs, args...)
	return t.run(ctx, envKey, cmdArgs)
}

func (t *Toolkit) run(ctx context.Context, envKey string, args []string) Result {
	cmd := t.command(envKey, args)
	fmt.Fprintln(t.Stdout, common.Blue(cmd.String()))

	if err := cmd.Run(ctx); err != nil {
		t.logger().Debug("cdk command failed", zap.String("cmd", cmd.String()), zap.Error(err))
		return ResultFailed
	}
	return ResultSuccess
}

func (t *Toolkit) command(envKey string, args []string) cli.Command {
	bin := t.Bin
	if bin == "" {
		bin = config.DefaultCdkBin
	}
	var environ []string
	if t.Environ != nil {
		environ = t.Environ(envKey)
	}
	return cli.Command{
		Name:   bin,
		Args:   args,
		Dir:    t.Dir,
		Env:    environ,
		Stdout: t.Stdout,
		Stderr: t.Stderr,
	}
}

func (t *Toolkit) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}
