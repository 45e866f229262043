package params

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// PascalCase は環境キー・アプリキーをパス用にPascalCaseへ変換する
func PascalCase(s string) string {
	return strcase.ToCamel(s)
}

// ParameterPath はSSMパラメータのパスを組み立てる
// 形式: /CDK/<AppKey>/<EnvKey>/<paths...>（空の要素は除外）
func ParameterPath(appKey, envKey string, paths ...string) string {
	segments := make([]string, 0, 3+len(paths))
	segments = append(segments, "CDK", PascalCase(appKey), PascalCase(envKey))
	segments = append(segments, paths...)

	nonEmpty := segments[:0]
	for _, s := range segments {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return "/" + strings.Join(nonEmpty, "/")
}

// TagName は環境キーを記録するスタックタグのキー名を返す
func TagName(appKey string) string {
	if appKey != "" {
		return appKey
	}
	return defaultTagName
}

// IsSingleton はタグ値がSingletonスタックを表すか判定する
func IsSingleton(envKey string) bool {
	return strings.HasPrefix(envKey, SingletonPrefix)
}

// SingletonTagValue はSingletonスタックに付与するタグ値を返す
func SingletonTagValue(stackName string) string {
	return SingletonPrefix + stackName
}

// StackID はアプリキー・環境キーを前置したスタックIDを返す
func StackID(appKey, envKey, name string) string {
	return appKey + envKey + name
}
