package discovery

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"topomap/internal/domain"
)

func (c *Clients) collectLambda(ctx context.Context, graph *domain.RawGraph) error {
	paginator := lambdasvc.NewListFunctionsPaginator(c.Lambda, &lambdasvc.ListFunctionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("listing functions: %w", err)
		}
		for _, fn := range page.Functions {
			name := aws.ToString(fn.FunctionName)
			graph.Nodes = append(graph.Nodes, domain.AssetNode{
				ID:   name,
				Name: name,
				Type: "LambdaFunction",
				ARN:  aws.ToString(fn.FunctionArn),
			})
			if role := aws.ToString(fn.Role); role != "" {
				graph.Edges = append(graph.Edges, domain.Relationship{
					Source: name,
					Target: role,
					Type:   "ASSUMES",
				})
			}
		}
	}
	return nil
}

func (c *Clients) collectRDS(ctx context.Context, graph *domain.RawGraph) error {
	paginator := rds.NewDescribeDBInstancesPaginator(c.RDS, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("describing DB instances: %w", err)
		}
		for _, db := range page.DBInstances {
			id := aws.ToString(db.DBInstanceIdentifier)
			graph.Nodes = append(graph.Nodes, domain.AssetNode{
				ID:   id,
				Name: id,
				Type: "RDSInstance",
				ARN:  aws.ToString(db.DBInstanceArn),
			})
			for _, sg := range db.VpcSecurityGroups {
				graph.Edges = append(graph.Edges, domain.Relationship{
					Source: aws.ToString(sg.VpcSecurityGroupId),
					Target: id,
					Type:   "ALLOWED_ONLY",
				})
			}
		}
	}
	return nil
}

func (c *Clients) collectDynamoDB(ctx context.Context, graph *domain.RawGraph) error {
	paginator := dynamodb.NewListTablesPaginator(c.DynamoDB, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("listing tables: %w", err)
		}
		for _, table := range page.TableNames {
			graph.Nodes = append(graph.Nodes, domain.AssetNode{
				ID:   table,
				Name: table,
				Type: "DynamoDBTable",
			})
		}
	}
	return nil
}

func (c *Clients) collectS3(ctx context.Context, graph *domain.RawGraph) error {
	result, err := c.S3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return fmt.Errorf("listing buckets: %w", err)
	}
	for _, bucket := range result.Buckets {
		name := aws.ToString(bucket.Name)
		graph.Nodes = append(graph.Nodes, domain.AssetNode{
			ID:   name,
			Name: name,
			Type: "S3Bucket",
		})
	}
	return nil
}

func (c *Clients) collectIAMRoles(ctx context.Context, graph *domain.RawGraph) error {
	paginator := iam.NewListRolesPaginator(c.IAM, &iam.ListRolesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("listing roles: %w", err)
		}
		for _, role := range page.Roles {
			// The role ARN is the node id: Lambda's Role field references
			// roles by ARN, so edges resolve without an extra lookup.
			graph.Nodes = append(graph.Nodes, domain.AssetNode{
				ID:   aws.ToString(role.Arn),
				Name: aws.ToString(role.RoleName),
				Type: "IAMRole",
				ARN:  aws.ToString(role.Arn),
			})
		}
	}
	return nil
}

func (c *Clients) collectAPIs(ctx context.Context, graph *domain.RawGraph) error {
	restPaginator := apigateway.NewGetRestApisPaginator(c.APIGateway, &apigateway.GetRestApisInput{})
	for restPaginator.HasMorePages() {
		page, err := restPaginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("listing REST APIs: %w", err)
		}
		for _, api := range page.Items {
			graph.Nodes = append(graph.Nodes, domain.AssetNode{
				ID:   aws.ToString(api.Id),
				Name: aws.ToString(api.Name),
				Type: "RestApi",
			})
		}
	}

	// apigatewayv2 exposes no paginator for GetApis; page manually.
	input := &apigatewayv2.GetApisInput{}
	for {
		page, err := c.APIGatewayV2.GetApis(ctx, input)
		if err != nil {
			return fmt.Errorf("listing HTTP APIs: %w", err)
		}
		for _, api := range page.Items {
			graph.Nodes = append(graph.Nodes, domain.AssetNode{
				ID:   aws.ToString(api.ApiId),
				Name: aws.ToString(api.Name),
				Type: "HttpApi",
			})
		}
		if page.NextToken == nil {
			break
		}
		input.NextToken = page.NextToken
	}
	return nil
}
