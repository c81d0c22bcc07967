package discovery

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Clients bundles the AWS service clients the live collector needs. All of
// them share one config resolved via the standard credential chain.
type Clients struct {
	AccountID string

	EC2          *ec2.Client
	Lambda       *lambdasvc.Client
	RDS          *rds.Client
	DynamoDB     *dynamodb.Client
	S3           *s3.Client
	IAM          *iam.Client
	APIGateway   *apigateway.Client
	APIGatewayV2 *apigatewayv2.Client
}

// NewClients loads AWS config (env vars, IAM role, SSO profile) with adaptive
// retries and verifies credentials up front so a misconfigured environment
// fails fast instead of half-way through a scan.
func NewClients(ctx context.Context) (*Clients, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRetryMaxAttempts(5),
		config.WithRetryer(func() aws.Retryer {
			return retry.NewAdaptiveMode(func(o *retry.AdaptiveModeOptions) {
				o.StandardOptions = append(o.StandardOptions, func(so *retry.StandardOptions) {
					so.MaxBackoff = 30 * time.Second
				})
			})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	accountID, err := resolveAccountID(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("AWS credential check failed (ensure valid credentials via env vars, IAM role, or SSO): %w", err)
	}

	return &Clients{
		AccountID:    accountID,
		EC2:          ec2.NewFromConfig(cfg),
		Lambda:       lambdasvc.NewFromConfig(cfg),
		RDS:          rds.NewFromConfig(cfg),
		DynamoDB:     dynamodb.NewFromConfig(cfg),
		S3:           s3.NewFromConfig(cfg),
		IAM:          iam.NewFromConfig(cfg),
		APIGateway:   apigateway.NewFromConfig(cfg),
		APIGatewayV2: apigatewayv2.NewFromConfig(cfg),
	}, nil
}

func resolveAccountID(ctx context.Context, cfg aws.Config) (string, error) {
	if accountID := os.Getenv("AWS_ACCOUNT_ID"); accountID != "" {
		return accountID, nil
	}

	result, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	if result == nil || result.Account == nil {
		return "", fmt.Errorf("empty account ID in response")
	}
	return aws.ToString(result.Account), nil
}
