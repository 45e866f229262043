package stacks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
)

// ResourceTypeStack はタグ検索で対象とするリソースタイプ
const ResourceTypeStack = "cloudformation:stack"

// API はスタック検出に使うResource Groups Tagging APIの操作
type API interface {
	GetResources(ctx context.Context, params *resourcegroupstaggingapi.GetResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.GetResourcesOutput, error)
}

var _ API = (*resourcegroupstaggingapi.Client)(nil)

// Index は環境キーごとのデプロイ済みスタック名
type Index map[string][]string
