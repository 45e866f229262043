package cmd

import (
	"os"

	"cdkdeploy/internal/config"
	envsvc "cdkdeploy/internal/service/env"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "参照する環境変数の状態を表示",
	Long: AppName + `が参照する環境変数の値と、既定値・フォールバック適用後の値を表示します。

例:
  ` + AppName + ` env
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		envsvc.ShowAllVariables(cmd.OutOrStdout(), env.ToMap(os.Environ()), cfg)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(envCmd)
}
