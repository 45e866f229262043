package params

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cdkdeploy/internal/service/common"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// ErrDefaultFileUnreadable はデフォルトパラメータファイルを用意できない場合のエラー
var ErrDefaultFileUnreadable = errors.New("default parameter file is unreadable")

// DefaultFilePath はデフォルトパラメータファイルのパスを返す
func DefaultFilePath(dir string) string {
	return filepath.Join(dir, DefaultFileName)
}

// LoadDefault はデフォルトパラメータファイル（KEY=VALUE形式）を読み込む
// ファイルが存在しない場合はプレースホルダーを書き込み、その旨を表示して空のパラメータを返す
func LoadDefault(dir string, out io.Writer) (Parameters, error) {
	path := DefaultFilePath(dir)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(defaultFilePlaceholder), 0o644); err != nil {
			return nil, errors.Mark(
				errors.Wrapf(err, "%s を作成できません。KEY=VALUE 形式で手動作成してください", path),
				ErrDefaultFileUnreadable,
			)
		}
		fmt.Fprintf(out, "%s デフォルトパラメータファイルが見つからないため作成しました: %s\n", common.InfoIcon, path)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Mark(
			errors.Wrapf(err, "%s の読み込みに失敗しました。KEY=VALUE 形式か確認してください", path),
			ErrDefaultFileUnreadable,
		)
	}
	return Parameters(values), nil
}
