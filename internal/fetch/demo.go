package fetch

import "topomap/internal/domain"

// DemoGraph returns the fixed demonstration dataset substituted when the
// backend is unreachable or returns no nodes. It spans several service
// types, carries both observed and allowed-only flows, and includes one
// internet-reachable boundary control so every pipeline stage has something
// to show. It flows through the same input contract as real data.
func DemoGraph() domain.RawGraph {
	return domain.RawGraph{
		Nodes: []domain.AssetNode{
			{ID: "apigw-orders", Name: "orders-api", Type: "APIGateway"},
			{ID: "lambda-checkout", Name: "checkout", Type: "LambdaFunction",
				ARN: "arn:aws:lambda:us-east-1:123456789012:function:checkout"},
			{ID: "lambda-billing", Name: "billing", Type: "LambdaFunction",
				ARN: "arn:aws:lambda:us-east-1:123456789012:function:billing"},
			{ID: "i-0badc0ffee123456", Name: "web-1", Type: "EC2Instance"},
			{ID: "sg-web-ingress", Name: "web-ingress", Type: "SecurityGroup",
				Tags: map[string]string{"usage": "last traffic 2h ago"}},
			{ID: "sg-legacy-admin", Name: "legacy-admin", Type: "SecurityGroup",
				Tags: map[string]string{"usage": "no traffic in 90 days", "unused_rules": "true"}},
			{ID: "rds-orders", Name: "orders-db", Type: "RDS"},
			{ID: "ddb-sessions", Name: "sessions", Type: "DynamoDBTable"},
			{ID: "sqs-invoices", Name: "invoices", Type: "SQSQueue"},
			{ID: "s3-receipts", Name: "receipts", Type: "S3Bucket"},
			{ID: "iam-app-role", Name: "app-role", Type: "IAMRole"},
			{ID: "cw-app-logs", Name: "app-logs", Type: "LogGroup"},
			{ID: "vpc-0demo0001", Name: "main-vpc"},
			{ID: "subnet-0demo0001", Name: "private-a"},
			{ID: "igw-0demo0001", Name: "main-igw"},
		},
		Edges: []domain.Relationship{
			// Observed runtime traffic through the serving path.
			{Source: "apigw-orders", Target: "lambda-checkout", Type: "ACTUAL_TRAFFIC"},
			{Source: "lambda-checkout", Target: "rds-orders", Type: "ACTUAL_TRAFFIC"},
			{Source: "lambda-checkout", Target: "ddb-sessions", Type: "RUNTIME_QUERY"},
			// Allowed but never seen occurring.
			{Source: "lambda-billing", Target: "rds-orders", Type: "ALLOWED_ONLY"},
			{Source: "lambda-billing", Target: "sqs-invoices", Type: "ALLOWED_ONLY"},
			{Source: "i-0badc0ffee123456", Target: "s3-receipts", Type: "ALLOWED_ONLY"},
			{Source: "lambda-checkout", Target: "cw-app-logs", Type: "WRITES_LOGS"},
			{Source: "i-0badc0ffee123456", Target: "iam-app-role", Type: "ASSUMES"},
			// Internet-facing entry points.
			{Source: domain.InternetNodeID, Target: "sg-web-ingress", Type: "ACTUAL_HTTPS", Port: "443", Protocol: "tcp"},
			{Source: domain.InternetNodeID, Target: "sg-legacy-admin", Type: "ALLOWED_ONLY", Port: "22", Protocol: "tcp"},
			// Container membership, excluded from flows.
			{Source: "i-0badc0ffee123456", Target: "subnet-0demo0001", Type: "MEMBER_OF"},
			{Source: "subnet-0demo0001", Target: "vpc-0demo0001", Type: "MEMBER_OF"},
		},
	}
}
