package main

import (
	"cdkdeploy/cdkparams"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
)

func main() {
	defer jsii.Close()

	env, err := cdkparams.LoadEnvironment()
	if err != nil {
		panic(err)
	}

	app := awscdk.NewApp(nil)

	s3Stack := NewS3Stack(app, env, &S3StackProps{
		StackProps:    awscdk.StackProps{Env: awsEnv()},
		RemovalPolicy: removalPolicy(env.Get("removalPolicy", "retain")),
	})

	NewRoleStack(app, env, &RoleStackProps{
		StackProps: awscdk.StackProps{Env: awsEnv()},
		BucketArn:  s3Stack.BucketArn,
	})

	app.Synth(nil)
}

// removalPolicy はデプロイパラメータの値をRemovalPolicyに変換する
func removalPolicy(v string) awscdk.RemovalPolicy {
	switch v {
	case "destroy":
		return awscdk.RemovalPolicy_DESTROY
	case "snapshot":
		return awscdk.RemovalPolicy_SNAPSHOT
	default:
		return awscdk.RemovalPolicy_RETAIN
	}
}

// awsEnv はデプロイ先のアカウント・リージョン
// nil の場合は環境非依存のテンプレートになる
func awsEnv() *awscdk.Environment {
	return nil
}
