package main

import (
	"cdkdeploy/cdkparams"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// S3StackProps はS3Stackのプロパティ
type S3StackProps struct {
	awscdk.StackProps
	RemovalPolicy awscdk.RemovalPolicy
}

// S3Stack はバケットを作成し、バケット名をSSMに出力する
type S3Stack struct {
	awscdk.Stack
	BucketArn *string
}

func NewS3Stack(scope constructs.Construct, env cdkparams.Environment, props *S3StackProps) *S3Stack {
	stack := env.NewStack(scope, "S3Stack", &props.StackProps)

	bucket := awss3.NewBucket(stack, jsii.String(env.Name("MyBucket")), &awss3.BucketProps{
		RemovalPolicy: props.RemovalPolicy,
	})

	env.StoreOutputs(stack, map[string]*string{
		"myBucketName": bucket.BucketName(),
	})

	return &S3Stack{Stack: stack, BucketArn: bucket.BucketArn()}
}

// RoleStackProps はRoleStackのプロパティ
type RoleStackProps struct {
	awscdk.StackProps
	BucketArn *string
}

// NewRoleStack はバケットを読み取れるロールを作成する
func NewRoleStack(scope constructs.Construct, env cdkparams.Environment, props *RoleStackProps) awscdk.Stack {
	stack := env.NewStack(scope, "RoleStack", &props.StackProps)

	policy := awsiam.NewManagedPolicy(stack, jsii.String(env.Name("MyManagedPolicy")), &awsiam.ManagedPolicyProps{
		Statements: &[]awsiam.PolicyStatement{
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Effect:    awsiam.Effect_ALLOW,
				Actions:   jsii.Strings("s3:GetObject"),
				Resources: &[]*string{props.BucketArn},
			}),
		},
	})

	role := awsiam.NewRole(stack, jsii.String(env.Name("MyRole")), &awsiam.RoleProps{
		AssumedBy:       awsiam.NewServicePrincipal(jsii.String("appsync.amazonaws.com"), nil),
		ManagedPolicies: &[]awsiam.IManagedPolicy{policy},
	})

	env.StoreOutputs(stack, map[string]*string{
		"myRoleArn": role.RoleArn(),
	})

	return stack
}
