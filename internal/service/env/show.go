package env

import (
	"fmt"
	"io"

	"cdkdeploy/internal/config"
	"cdkdeploy/internal/service/common"
)

// ShowAllVariables はすべての環境変数の状態を表示
// environ は実際に設定されている値、cfg は既定値・フォールバック適用後の値
func ShowAllVariables(w io.Writer, environ map[string]string, cfg config.Config) {
	fmt.Fprintf(w, "%s cdkdeploy関連の環境変数の状態:\n", common.InfoIcon)
	fmt.Fprintln(w)

	for _, v := range SupportedVariables {
		value, set := environ[v.Name]
		resolved := v.Resolved(cfg)

		switch {
		case set && value != "":
			fmt.Fprintf(w, "  %s (%s): %s\n", v.Description, v.Name, value)
		case resolved != "":
			fmt.Fprintf(w, "  %s (%s): 未設定 → %s\n", v.Description, v.Name, resolved)
		default:
			fmt.Fprintf(w, "  %s (%s): 未設定\n", v.Description, v.Name)
		}
	}
}
