package aws

import "github.com/aws/aws-sdk-go-v2/aws"

// Context はAWS認証情報（プロファイル・リージョン）を保持する
type Context struct {
	Profile string
	Region  string
	config  *aws.Config // AWS設定のキャッシュ（非公開）
}
