package deploy

import (
	"context"
	"fmt"

	"cdkdeploy/internal/prompt"
	"cdkdeploy/internal/service/common"
	"cdkdeploy/internal/service/params"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// reconcile はデフォルトパラメータと前回のパラメータを突き合わせ、今回使うパラメータを確定して保存する
// 編集した場合はリモートとローカルの両方に、そうでなければローカルにのみ書き込む
func (d *Deployer) reconcile(ctx context.Context, envKey string, isNew bool) (params.Parameters, error) {
	defaults, err := params.LoadDefault(d.opts.WorkDir, d.opts.Out)
	if err != nil {
		return nil, err
	}

	latest := d.loadLatest(ctx, envKey, isNew)

	change := isNew
	if !change {
		change, err = d.willChange(defaults, orEmpty(latest))
		if err != nil {
			return nil, err
		}
	}

	if !change {
		fmt.Fprintln(d.opts.Out, common.Gray("processing..."))
		final := latest
		if final == nil {
			final = defaults
		}
		if err := d.local.Write(d.opts.AppKey, envKey, final); err != nil {
			return nil, err
		}
		return final, nil
	}

	edited, err := d.edit(params.Merge(defaults, orEmpty(latest)))
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(d.opts.Out, common.Gray("processing..."))
	if err := d.remote.Write(ctx, d.opts.AppKey, envKey, edited, latest != nil); err != nil {
		return nil, err
	}
	if err := d.local.Write(d.opts.AppKey, envKey, edited); err != nil {
		return nil, err
	}
	return edited, nil
}

// loadLatest は前回デプロイ時のパラメータを読み込む。見つからない場合は nil
// 新規環境はローカルキャッシュ、既存環境はリモートから読み込む
func (d *Deployer) loadLatest(ctx context.Context, envKey string, isNew bool) params.Parameters {
	if isNew {
		p, err := d.local.Load(d.opts.AppKey, envKey)
		if err != nil {
			if !errors.Is(err, params.ErrLocalCacheNotFound) {
				d.opts.Logger.Warn("failed to load local parameters", zap.Error(err))
			}
			return nil
		}
		return p
	}

	p, err := d.remote.Load(ctx, d.opts.AppKey, envKey)
	if err != nil {
		fmt.Fprintln(d.opts.Out, common.Yellow(fmt.Sprintf("%s error occurred in get ssm parameters. %v", common.WarningIcon, err)))
		return nil
	}
	return p
}

// willChange はパラメータを変更するかを判定する
func (d *Deployer) willChange(defaults, latest params.Parameters) (bool, error) {
	if params.KeysDiffer(defaults, latest) {
		fmt.Fprintln(d.opts.Out, common.Yellow(common.WarningIcon+" default parameters changed since the latest deployment."))
		return true, nil
	}
	// キーに差分がなくデフォルトが空なら、変更するパラメータはない
	if len(defaults) == 0 {
		return false, nil
	}

	for {
		selected, err := d.prompt.Select("change aws-cdk deploy parameters?", []string{
			ShowParametersChoice, ChangeParametersChoice, NoChangeChoice,
		})
		if err != nil {
			return false, err
		}
		if selected == ShowParametersChoice {
			fmt.Fprintln(d.opts.Out, common.FormatJSON(latest))
			continue
		}
		return selected == ChangeParametersChoice, nil
	}
}

// edit はパラメータを項目ごとに入力させ、確認が取れるまで繰り返す
func (d *Deployer) edit(current params.Parameters) (params.Parameters, error) {
	for {
		if len(current) == 0 {
			fmt.Fprintln(d.opts.Out, common.Gray("deploy parameter editing will be skipped."))
			return params.Parameters{}, nil
		}

		keys := current.Keys()
		fields := make([]prompt.Field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, prompt.Field{Name: k, Message: current[k]})
		}
		input, err := d.prompt.Fields("configure aws-cdk App deploy parameters", fields)
		if err != nil {
			return nil, err
		}

		merged := params.Merge(current, input)
		fmt.Fprintln(d.opts.Out, common.Cyan(common.FormatJSON(merged)))

		ok, err := d.prompt.Confirm("OK?(Yes), or change parameters?(No)")
		if err != nil {
			return nil, err
		}
		if ok {
			return merged, nil
		}
		current = merged
	}
}

func orEmpty(p params.Parameters) params.Parameters {
	if p == nil {
		return params.Parameters{}
	}
	return p
}
