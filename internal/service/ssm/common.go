package ssm

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"github.com/cockroachdb/errors"
)

const errCodeParameterAlreadyExists = "ParameterAlreadyExists"

// relativeParameterName はパス配下のパラメータ名からプレフィックスを取り除く
func relativeParameterName(prefix, name string) string {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	return strings.TrimPrefix(name, prefix)
}

// isAlreadyExists はPutParameterが既存パラメータと衝突したか判定する
func isAlreadyExists(err error) bool {
	var exists *types.ParameterAlreadyExists
	if errors.As(err, &exists) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == errCodeParameterAlreadyExists
	}
	return false
}

// IsNotFound はGetParameterでパラメータが存在しなかったか判定する
func IsNotFound(err error) bool {
	var notFound *types.ParameterNotFound
	return errors.As(err, &notFound)
}
