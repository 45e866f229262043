package deploy

import (
	"context"
	"fmt"
	"io"
	"slices"

	"cdkdeploy/internal/service/cdk"
	"cdkdeploy/internal/service/common"
	"cdkdeploy/internal/service/params"
	"cdkdeploy/internal/service/stacks"

	"github.com/cockroachdb/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Deployer は環境の選択からcdk deployまでを順に実行する
type Deployer struct {
	opts   Options
	remote ParameterStore
	local  LocalCache
	index  StackIndex
	prompt Prompter
	cdk    Toolkit
}

// NewDeployer はDeployerを作成する
func NewDeployer(opts Options, remote ParameterStore, local LocalCache, index StackIndex, prompter Prompter, toolkit Toolkit) *Deployer {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Deployer{
		opts:   opts,
		remote: remote,
		local:  local,
		index:  index,
		prompt: prompter,
		cdk:    toolkit,
	}
}

// Run はデプロイ処理を実行する
func (d *Deployer) Run(ctx context.Context) (*Outcome, error) {
	out := d.opts.Out
	fmt.Fprintln(out, common.Green(common.DeployIcon+" AWS-CDK Deploy Tool Start."))

	index, err := d.discover(ctx)
	if err != nil {
		return nil, err
	}

	envKey, isNew, err := d.selectEnvKey(index)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{EnvKey: envKey, IsNew: isNew}
	d.opts.Logger.Debug("selected environment", zap.String("envKey", envKey), zap.Bool("new", isNew))

	parameters, err := d.reconcile(ctx, envKey, isNew)
	if err != nil {
		return nil, err
	}
	outcome.Parameters = parameters

	args, skipDiff := cdk.SplitArgs(d.opts.Args)
	listed, err := d.cdk.List(ctx, envKey, args)
	if err != nil {
		return nil, err
	}
	if len(listed) == 0 {
		return nil, errors.WithStack(ErrNoStacks)
	}

	if !isNew {
		proceed, err := d.confirmUnmanaged(index, envKey, listed)
		if err != nil {
			return nil, err
		}
		if !proceed {
			outcome.Aborted = true
			return outcome, nil
		}
	}

	if skipDiff {
		fmt.Fprintln(out, "skip diff.")
	} else {
		outcome.Diff = d.cdk.Diff(ctx, envKey, args)
		fmt.Fprintln(out, outcome.Diff)
	}

	targets, err := d.selectStacks(listed)
	if err != nil {
		return nil, err
	}
	outcome.Stacks = targets

	ok, err := d.prompt.Confirm("Do you wish to deploy?")
	if err != nil {
		return nil, err
	}
	if !ok {
		outcome.Aborted = true
		return outcome, nil
	}

	outcome.Deploy = d.cdk.Deploy(ctx, envKey, targets, args)
	fmt.Fprintln(out, outcome.Deploy)
	if outcome.Deploy != cdk.ResultSuccess {
		return outcome, errors.WithStack(ErrDeployFailed)
	}

	fmt.Fprintln(out, common.Green(common.PartyIcon+" AWS-CDK Deploy Tool End."))
	return outcome, nil
}

// discover はスピナーを表示しながらデプロイ済みスタックを検索する
func (d *Deployer) discover(ctx context.Context) (stacks.Index, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(d.opts.Progress),
		progressbar.OptionSetDescription(fmt.Sprintf(common.SearchingFormat, common.SearchIcon, "デプロイ済みスタック")),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	_ = bar.Add(1)
	index, err := d.index.Discover(ctx, d.opts.AppKey)
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}
	return index, nil
}

// selectEnvKey はデプロイ先の環境キーを選択、または新規に入力させる
func (d *Deployer) selectEnvKey(index stacks.Index) (string, bool, error) {
	current := index.EnvKeys()
	selected, err := d.prompt.Select("select CdkEnvKey to deploy", append(slices.Clone(current), NewStacksChoice))
	if err != nil {
		return "", false, err
	}
	if selected != NewStacksChoice {
		return selected, false, nil
	}

	for {
		input, err := d.prompt.Input("input CdkEnvKey", DefaultEnvKey)
		if err != nil {
			return "", false, err
		}
		envKey := params.PascalCase(input)
		if envKey == "" {
			continue
		}
		if index.Has(envKey) {
			fmt.Fprintln(d.opts.Out, common.Yellow(fmt.Sprintf("%s CdkEnvKey [%s] already exists", common.WarningIcon, envKey)))
			continue
		}
		return envKey, true, nil
	}
}

// confirmUnmanaged はCloudFormation上にだけ存在するスタックがあれば警告し、続行するか確認する
func (d *Deployer) confirmUnmanaged(index stacks.Index, envKey string, listed []string) (bool, error) {
	unmanaged := index.Unmanaged(envKey, listed)
	if len(unmanaged) == 0 {
		return true, nil
	}
	fmt.Fprintln(d.opts.Out, common.Yellow(common.WarningIcon+" There is unmanaged Stacks with aws-cdk. Remove them manually if necessary."))
	common.PrintSimpleList(d.opts.Out, "unmanaged Stacks", unmanaged)
	return d.prompt.Confirm("continue?")
}

// selectStacks は1つ以上選ばれるまでデプロイ対象のスタックを選択させる
func (d *Deployer) selectStacks(listed []string) ([]string, error) {
	for {
		targets, err := d.prompt.MultiSelect("select Stacks to deploy", listed)
		if err != nil {
			return nil, err
		}
		if len(targets) > 0 {
			return targets, nil
		}
	}
}
