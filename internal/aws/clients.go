package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Clients はAWS設定と各サービスクライアントを管理
type Clients struct {
	cfg aws.Config

	// 遅延初期化されるクライアント群
	ssm     *ssm.Client
	tagging *resourcegroupstaggingapi.Client
}

// NewAwsClients は認証情報からAWS設定を読み込んでクライアント管理構造体を作成
func NewAwsClients(ctx context.Context, awsCtx Context) (*Clients, error) {
	cfg, err := awsCtx.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	return NewClientsFromConfig(cfg), nil
}

// NewClientsFromConfig は読み込み済みのAWS設定からクライアント管理構造体を作成
func NewClientsFromConfig(cfg aws.Config) *Clients {
	return &Clients{cfg: cfg}
}

// Ssm は遅延初期化でSSMクライアントを取得
func (c *Clients) Ssm() *ssm.Client {
	if c.ssm == nil {
		c.ssm = ssm.NewFromConfig(c.cfg)
	}
	return c.ssm
}

// Tagging は遅延初期化でResource Groups Tagging APIクライアントを取得
func (c *Clients) Tagging() *resourcegroupstaggingapi.Client {
	if c.tagging == nil {
		c.tagging = resourcegroupstaggingapi.NewFromConfig(c.cfg)
	}
	return c.tagging
}

// Region は解決済みのリージョンを返す
func (c *Clients) Region() string {
	return c.cfg.Region
}
