package cdkparams_test

import (
	"cdkdeploy/cdkparams"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"
)

// Example_stack はデプロイパラメータを使ってスタックを作成し、出力値をSSMに保存する
func Example_stack() {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	env := cdkparams.Environment{
		EnvKey:     "Dev",
		Parameters: map[string]string{"removalPolicy": "destroy"},
	}

	stack := env.NewStack(app, "S3Stack", nil)
	policy := awscdk.RemovalPolicy_RETAIN
	if env.Get("removalPolicy", "retain") == "destroy" {
		policy = awscdk.RemovalPolicy_DESTROY
	}
	bucket := awss3.NewBucket(stack, jsii.String(env.Name("MyBucket")), &awss3.BucketProps{
		RemovalPolicy: policy,
	})

	env.StoreOutputs(stack, map[string]*string{"myBucketName": bucket.BucketName()})
}

// Example_singletonStack は環境に依存しない共有スタックを作成する
func Example_singletonStack() {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := cdkparams.NewSingletonStack(app, "SharedStack", nil)
	bucket := awss3.NewBucket(stack, jsii.String("SharedBucket"), nil)

	cdkparams.StoreSingletonOutputs(stack, "SharedStack", map[string]*string{"sharedBucketName": bucket.BucketName()})
}
