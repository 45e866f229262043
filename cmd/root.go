package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"

	"cdkdeploy/internal/aws"
	"cdkdeploy/internal/config"
	"cdkdeploy/internal/logging"
	"cdkdeploy/internal/prompt"
	"cdkdeploy/internal/service/cdk"
	"cdkdeploy/internal/service/common"
	"cdkdeploy/internal/service/deploy"
	"cdkdeploy/internal/service/params"
	"cdkdeploy/internal/service/ssm"
	"cdkdeploy/internal/service/stacks"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// AppName はコマンド名
const AppName = "cdkdeploy"

// RootCmd は引数をそのままcdkへ渡して対話的にデプロイする
var RootCmd = &cobra.Command{
	Use:   AppName + " [cdk args...] [--skip-diff]",
	Short: "AWS CDKのスタックを対話的にデプロイする",
	Long: `デプロイ済みスタックから環境（CDK_ENV_KEY）を選択または新規作成し、
デプロイパラメータをSSM Parameter Storeと突き合わせてから cdk list / diff / deploy を実行します。

引数はすべてcdkへそのまま渡されます。--skip-diff を指定すると cdk diff を省略します。

環境変数:
  CDK_APP_KEY           アプリケーションの名前空間（任意）
  AWS_REGION            リージョン（未設定時は AWS_DEFAULT_REGION）
  AWS_PROFILE           AWSプロファイル
  CDK_DEPLOY_CDK_BIN    実行するcdkコマンド（既定: cdk）
  CDK_DEPLOY_LOG_LEVEL  診断ログのレベル（既定: warn）

例:
  ` + AppName + `
  ` + AppName + ` --profile my-profile --skip-diff
  ` + AppName + ` -c stage=dev --require-approval never
`,
	// cdkの引数を解釈せずにそのまま受け取る
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && slices.Contains([]string{"-h", "--help", "help"}, args[0]) {
			return cmd.Help()
		}
		return runDeploy(cmd.Context(), cmd, args)
	},
}

// Execute はルートコマンドを実行し、失敗時は終了コード1で終了する
func Execute() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	if errors.Is(err, deploy.ErrDeployFailed) {
		fmt.Fprintln(os.Stderr, common.Red(common.ErrorIcon+" "+err.Error()))
		return
	}
	fmt.Fprintln(os.Stderr, common.Red(fmt.Sprintf("%s エラー: %v", common.ErrorIcon, err)))
	fmt.Fprintf(os.Stderr, "%+v\n", err)
}

// runDeploy は設定を読み込んで各コンポーネントを組み立て、デプロイ処理を実行する
func runDeploy(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, os.Stderr)
	defer func() { _ = logger.Sync() }()

	clients, err := aws.NewAwsClients(ctx, aws.Context{Profile: cfg.Profile, Region: cfg.Region})
	if err != nil {
		return err
	}
	logger.Debug("aws clients ready", zap.String("region", clients.Region()), zap.String("profile", cfg.Profile))

	deployer := deploy.NewDeployer(
		deploy.Options{
			AppKey:   cfg.AppKey,
			WorkDir:  cfg.WorkDir,
			Args:     args,
			Out:      cmd.OutOrStdout(),
			Progress: cmd.ErrOrStderr(),
			Logger:   logger,
		},
		ssm.NewStore(clients.Ssm(), logger),
		params.NewLocalStore(cfg.WorkDir),
		stacks.NewDiscoverer(clients.Tagging(), logger),
		prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()),
		cdk.NewToolkit(cfg, logger),
	)

	outcome, err := deployer.Run(ctx)
	if err != nil {
		return err
	}
	if outcome.Aborted {
		fmt.Fprintln(cmd.OutOrStdout(), common.Gray("デプロイを中止しました（変更はありません）"))
	}
	return nil
}
