package stacks

import (
	"context"
	"strings"

	"cdkdeploy/internal/service/params"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Discoverer はタグからデプロイ済みスタックを検出する
type Discoverer struct {
	client API
	logger *zap.Logger
}

// NewDiscoverer はDiscovererを作成する
func NewDiscoverer(client API, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{client: client, logger: logger}
}

// Discover は環境キーのタグが付いたCloudFormationスタックを環境キーごとにまとめる
func (d *Discoverer) Discover(ctx context.Context, appKey string) (Index, error) {
	tagName := params.TagName(appKey)
	index := Index{}

	var token *string
	for {
		out, err := d.client.GetResources(ctx, &resourcegroupstaggingapi.GetResourcesInput{
			PaginationToken:     token,
			TagFilters:          []types.TagFilter{{Key: aws.String(tagName)}},
			ResourceTypeFilters: []string{ResourceTypeStack},
		})
		if err != nil {
			return nil, errors.Wrap(err, "getting tagged stacks")
		}

		for _, mapping := range out.ResourceTagMappingList {
			envKey, ok := tagValue(mapping.Tags, tagName)
			if !ok {
				continue
			}
			name, err := StackNameFromARN(aws.ToString(mapping.ResourceARN))
			if err != nil {
				d.logger.Warn("skipping resource", zap.String("arn", aws.ToString(mapping.ResourceARN)), zap.Error(err))
				continue
			}
			index[envKey] = append(index[envKey], name)
		}

		token = out.PaginationToken
		if aws.ToString(token) == "" {
			break
		}
	}

	d.logger.Debug("discovered stacks", zap.String("tag", tagName), zap.Int("envs", len(index)))
	return index, nil
}

// tagValue は指定キーのタグ値を返す。キーが一致しない場合は先頭のタグを使う
func tagValue(tags []types.Tag, key string) (string, bool) {
	for _, t := range tags {
		if aws.ToString(t.Key) == key {
			return aws.ToString(t.Value), true
		}
	}
	if len(tags) > 0 {
		return aws.ToString(tags[0].Value), true
	}
	return "", false
}

// StackNameFromARN はスタックARNからスタック名を取り出す
// 例: arn:aws:cloudformation:ap-northeast-1:123456789012:stack/MyStack/e53ede20-... → MyStack
func StackNameFromARN(s string) (string, error) {
	parsed, err := arn.Parse(s)
	if err != nil {
		return "", errors.Wrapf(err, "parsing arn %q", s)
	}
	parts := strings.Split(parsed.Resource, "/")
	if len(parts) < 2 || parts[0] != "stack" || parts[1] == "" {
		return "", errors.Newf("not a stack arn: %q", s)
	}
	return parts[1], nil
}
