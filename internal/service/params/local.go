package params

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// ErrLocalCacheNotFound はローカルキャッシュが存在しない場合のエラー
var ErrLocalCacheNotFound = errors.New("local parameter cache not found")

// LocalStore は最後に適用したパラメータを cdk.json の output ディレクトリにJSONで保持する
type LocalStore struct {
	Dir string // cdk.json があるディレクトリ
}

// NewLocalStore はLocalStoreを作成する
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

// Path は(appKey, envKey)ごとのキャッシュファイルのパスを返す
// 出力先は cdk.json の "output"（未指定なら cdk.out）
func (s *LocalStore) Path(appKey, envKey string) (string, error) {
	cdkJSON := filepath.Join(s.Dir, cdkJSONFileName)
	data, err := os.ReadFile(cdkJSON)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", cdkJSON)
	}

	var cfg struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", errors.Wrapf(err, "parsing %s", cdkJSON)
	}

	outDir := cfg.Output
	if outDir == "" {
		outDir = defaultOutputDir
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(s.Dir, outDir)
	}
	return filepath.Join(outDir, appKey+envKey+".parameters.json"), nil
}

// Load はローカルキャッシュを読み込む
// ファイルがない場合は ErrLocalCacheNotFound を返す（空のパラメータにはしない）
func (s *LocalStore) Load(appKey, envKey string) (Parameters, error) {
	path, err := s.Path(appKey, envKey)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Mark(errors.Newf("file not found: %s", path), ErrLocalCacheNotFound)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var p Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if p == nil {
		p = Parameters{}
	}
	return p, nil
}

// Write はパラメータを整形JSONで書き込む（親ディレクトリがなければ作成）
func (s *LocalStore) Write(appKey, envKey string, p Parameters) error {
	path, err := s.Path(appKey, envKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}

	if p == nil {
		p = Parameters{}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling parameters")
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
