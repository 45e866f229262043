package ssm

import (
	"context"
	"encoding/json"

	"cdkdeploy/internal/service/params"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Store はデプロイパラメータをSSM Parameter Storeに保持する
type Store struct {
	client API
	logger *zap.Logger
}

// NewStore はStoreを作成する
func NewStore(client API, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, logger: logger}
}

// Load は /CDK/<App>/<Env>/CdkDeployParametersString のJSONを読み込む
// 値が空の場合は空のパラメータを返す。APIエラー（ParameterNotFoundを含む）はそのまま呼び出し元へ返す
func (s *Store) Load(ctx context.Context, appKey, envKey string) (params.Parameters, error) {
	name := params.ParameterPath(appKey, envKey, params.DeployParametersKey)
	s.logger.Debug("ssm get parameter", zap.String("name", name))

	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(name),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "getting %s", name)
	}

	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return params.Parameters{}, nil
	}

	var p params.Parameters
	if err := json.Unmarshal([]byte(aws.ToString(out.Parameter.Value)), &p); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	if p == nil {
		p = params.Parameters{}
	}
	return p, nil
}

// Write はデプロイパラメータをJSONで書き込む
// overwrite=false で既にパラメータが存在した場合は、overwrite=true で一度だけ再試行する
func (s *Store) Write(ctx context.Context, appKey, envKey string, p params.Parameters, overwrite bool) error {
	if p == nil {
		p = params.Parameters{}
	}
	value, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshaling parameters")
	}

	name := params.ParameterPath(appKey, envKey, params.DeployParametersKey)
	err = s.put(ctx, name, string(value), appKey, envKey, overwrite)
	if err == nil {
		return nil
	}
	if overwrite || !isAlreadyExists(err) {
		return errors.Wrapf(err, "putting %s", name)
	}

	s.logger.Debug("ssm parameter already exists, retrying with overwrite", zap.String("name", name))
	if err := s.put(ctx, name, string(value), appKey, envKey, true); err != nil {
		return errors.Wrapf(err, "putting %s", name)
	}
	return nil
}

// put は単一のパラメータをParameter Storeに登録する
// 新規作成時（overwrite=false）のみ環境キーのタグを付与する（上書き時はタグを指定できない）
func (s *Store) put(ctx context.Context, name, value, appKey, envKey string, overwrite bool) error {
	input := &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      types.ParameterTypeString,
		Overwrite: aws.Bool(overwrite),
	}
	if !overwrite {
		input.Tags = []types.Tag{{
			Key:   aws.String(params.TagName(appKey)),
			Value: aws.String(envKey),
		}}
	}

	s.logger.Debug("ssm put parameter", zap.String("name", name), zap.Bool("overwrite", overwrite))
	_, err := s.client.PutParameter(ctx, input)
	return err
}

// LoadStackParameters は /CDK/<App>/<Env>/ 配下のパラメータをすべて取得する
// スタックが出力した値（バケット名など）をデプロイ済みのコードから参照するために使う
func (s *Store) LoadStackParameters(ctx context.Context, appKey, envKey string) (params.Parameters, error) {
	prefix := params.ParameterPath(appKey, envKey) + "/"
	result := params.Parameters{}

	var nextToken *string
	for {
		out, err := s.client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:      aws.String(prefix),
			Recursive: aws.Bool(true),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "getting parameters by path %s", prefix)
		}

		for _, p := range out.Parameters {
			result[relativeParameterName(prefix, aws.ToString(p.Name))] = aws.ToString(p.Value)
		}

		nextToken = out.NextToken
		if aws.ToString(nextToken) == "" {
			break
		}
	}

	s.logger.Debug("ssm loaded stack parameters", zap.String("path", prefix), zap.Int("count", len(result)))
	return result, nil
}
