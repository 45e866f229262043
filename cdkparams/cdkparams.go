// Package cdkparams は cdkdeploy から起動されるGo製CDKアプリ向けの補助関数を提供する。
//
// cdkdeploy はサブプロセスに CDK_ENV_KEY（と CDK_APP_KEY）を渡し、確定したデプロイパラメータを
// ローカルキャッシュへ書き出してから cdk を実行する。CDKアプリはこのパッケージで環境キーと
// パラメータを読み込み、スタックに環境キーのタグを付与する。タグが付いたスタックは次回のデプロイ時に
// 既存環境として検出される。
package cdkparams

import (
	"context"
	"sort"

	internalaws "cdkdeploy/internal/aws"
	"cdkdeploy/internal/config"
	"cdkdeploy/internal/service/params"
	"cdkdeploy/internal/service/ssm"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/cockroachdb/errors"
)

// Environment はデプロイ対象の環境とそのデプロイパラメータ
type Environment struct {
	AppKey     string
	EnvKey     string
	Parameters params.Parameters
}

// LoadEnvironment は環境変数とローカルキャッシュから Environment を読み込む
// CDK_ENV_KEY が未設定の場合は config.ErrEnvKeyRequired を返す
func LoadEnvironment() (Environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return Environment{}, err
	}
	return LoadEnvironmentFrom(cfg)
}

// LoadEnvironmentFrom は読み込み済みの設定から Environment を組み立てる
func LoadEnvironmentFrom(cfg config.Config) (Environment, error) {
	envKey, err := cfg.RequireEnvKey()
	if err != nil {
		return Environment{}, err
	}
	p, err := params.NewLocalStore(cfg.WorkDir).Load(cfg.AppKey, envKey)
	if err != nil {
		return Environment{}, errors.Wrapf(err, "loading deploy parameters for %s", envKey)
	}
	return Environment{AppKey: cfg.AppKey, EnvKey: envKey, Parameters: p}, nil
}

// StackID はアプリキー・環境キーを前置したスタックIDを返す
func (e Environment) StackID(name string) string {
	return params.StackID(e.AppKey, e.EnvKey, name)
}

// Name はスタック内のコンストラクトIDを環境ごとに一意にする
func (e Environment) Name(name string) string {
	return e.AppKey + e.EnvKey + name
}

// Get はデプロイパラメータを取得する。未設定の場合は def を返す
func (e Environment) Get(key, def string) string {
	if v, ok := e.Parameters[key]; ok && v != "" {
		return v
	}
	return def
}

// NewStack は環境キーを前置した名前でスタックを作成し、環境キーのタグを付与する
func (e Environment) NewStack(scope constructs.Construct, name string, props *awscdk.StackProps) awscdk.Stack {
	stack := awscdk.NewStack(scope, jsii.String(e.StackID(name)), props)
	e.TagStack(stack)
	return stack
}

// TagStack はスタックに環境キーのタグを付与する
func (e Environment) TagStack(stack awscdk.Stack) {
	awscdk.Tags_Of(stack).Add(jsii.String(params.TagName(e.AppKey)), jsii.String(e.EnvKey), nil)
}

// StoreOutputs はスタックの出力値を /CDK/<App>/<Env>/<name> のSSMパラメータとして保存する
func (e Environment) StoreOutputs(scope constructs.Construct, outputs map[string]*string) {
	storeOutputs(scope, e.AppKey, e.EnvKey, outputs)
}

// NewSingletonStack は環境に依存しない共有スタックを作成する
// Singletonスタックは環境の選択肢に表示されない
func NewSingletonStack(scope constructs.Construct, name string, props *awscdk.StackProps) awscdk.Stack {
	stack := awscdk.NewStack(scope, jsii.String(name), props)
	TagSingletonStack(stack, name)
	return stack
}

// TagSingletonStack はスタックにSingletonのタグを付与する
func TagSingletonStack(stack awscdk.Stack, name string) {
	awscdk.Tags_Of(stack).Add(jsii.String(params.TagName("")), jsii.String(params.SingletonTagValue(name)), nil)
}

// StoreSingletonOutputs はSingletonスタックの出力値を /CDK/<StackName>/<name> に保存する
func StoreSingletonOutputs(scope constructs.Construct, stackName string, outputs map[string]*string) {
	storeOutputs(scope, "", stackName, outputs)
}

func storeOutputs(scope constructs.Construct, appKey, envKey string, outputs map[string]*string) {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		awsssm.NewStringParameter(scope, jsii.String(name), &awsssm.StringParameterProps{
			ParameterName: jsii.String(params.ParameterPath(appKey, envKey, name)),
			StringValue:   outputs[name],
		})
	}
}

// LoadStackParameters はデプロイ済みスタックが保存した出力値をSSMから取得する
// アプリケーションの実行時に、バケット名などのリソース情報を参照するために使う
func LoadStackParameters(ctx context.Context, cfg config.Config) (params.Parameters, error) {
	envKey, err := cfg.RequireEnvKey()
	if err != nil {
		return nil, err
	}
	clients, err := internalaws.NewAwsClients(ctx, internalaws.Context{Profile: cfg.Profile, Region: cfg.Region})
	if err != nil {
		return nil, err
	}
	return ssm.NewStore(clients.Ssm(), nil).LoadStackParameters(ctx, cfg.AppKey, envKey)
}
