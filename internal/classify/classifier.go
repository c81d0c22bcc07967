package classify

import (
	"strings"

	"topomap/internal/domain"
)

/*
Service Type Classifier - resolves one raw asset to a canonical ServiceType

Discovery backends disagree about type labels ("Lambda", "LambdaFunction",
"AWS::Lambda::Function" are all the same thing) and some assets carry no type
label at all. Classification therefore runs ordered fallback strategies,
first match wins:

  1. Alias lookup of the declared type label
  2. Service namespace extracted from an ARN-like identifier
  3. Resource-id prefix of the asset id (sg-, vpc-, i-, ...)
  4. ServiceTypeDefault

The classifier is pure and total: no I/O, no state, never an error. Assets
that match nothing become their own "Unclassified" group downstream rather
than disappearing.
*/

// typeAliases maps normalized declared type labels to service types.
var typeAliases = map[string]domain.ServiceType{
	"lambda":               domain.ServiceTypeLambda,
	"lambdafunction":       domain.ServiceTypeLambda,
	"function":             domain.ServiceTypeLambda,
	"ec2":                  domain.ServiceTypeEC2,
	"ec2instance":          domain.ServiceTypeEC2,
	"instance":             domain.ServiceTypeEC2,
	"rds":                  domain.ServiceTypeRDS,
	"rdsinstance":          domain.ServiceTypeRDS,
	"database":             domain.ServiceTypeRDS,
	"dbinstance":           domain.ServiceTypeRDS,
	"dynamodb":             domain.ServiceTypeDynamoDB,
	"dynamodbtable":        domain.ServiceTypeDynamoDB,
	"s3":                   domain.ServiceTypeS3,
	"s3bucket":             domain.ServiceTypeS3,
	"bucket":               domain.ServiceTypeS3,
	"sqs":                  domain.ServiceTypeSQS,
	"sqsqueue":             domain.ServiceTypeSQS,
	"queue":                domain.ServiceTypeSQS,
	"sns":                  domain.ServiceTypeSNS,
	"snstopic":             domain.ServiceTypeSNS,
	"topic":                domain.ServiceTypeSNS,
	"apigateway":           domain.ServiceTypeAPIGateway,
	"apigw":                domain.ServiceTypeAPIGateway,
	"restapi":              domain.ServiceTypeAPIGateway,
	"httpapi":              domain.ServiceTypeAPIGateway,
	"alb":                  domain.ServiceTypeALB,
	"nlb":                  domain.ServiceTypeALB,
	"elb":                  domain.ServiceTypeALB,
	"loadbalancer":         domain.ServiceTypeALB,
	"securitygroup":        domain.ServiceTypeSecurityGroup,
	"sg":                   domain.ServiceTypeSecurityGroup,
	"iam":                  domain.ServiceTypeIAM,
	"iamrole":              domain.ServiceTypeIAM,
	"role":                 domain.ServiceTypeIAM,
	"iampolicy":            domain.ServiceTypeIAM,
	"iamuser":              domain.ServiceTypeIAM,
	"cloudwatch":           domain.ServiceTypeCloudWatch,
	"loggroup":             domain.ServiceTypeCloudWatch,
	"cloudtrail":           domain.ServiceTypeCloudTrail,
	"trail":                domain.ServiceTypeCloudTrail,
	"vpc":                  domain.ServiceTypeVPC,
	"subnet":               domain.ServiceTypeSubnet,
	"nat":                  domain.ServiceTypeNAT,
	"natgateway":           domain.ServiceTypeNAT,
	"internetgateway":      domain.ServiceTypeInternetGateway,
	"igw":                  domain.ServiceTypeInternetGateway,
	"ecs":                  domain.ServiceTypeECS,
	"ecsservice":           domain.ServiceTypeECS,
	"ecscluster":           domain.ServiceTypeECS,
	"stepfunctions":        domain.ServiceTypeStepFunctions,
	"statemachine":         domain.ServiceTypeStepFunctions,
	"eventbridge":          domain.ServiceTypeEventBridge,
	"eventbus":             domain.ServiceTypeEventBridge,
	"eventrule":            domain.ServiceTypeEventBridge,
	"elasticache":          domain.ServiceTypeElastiCache,
	"cachecluster":         domain.ServiceTypeElastiCache,
	"redis":                domain.ServiceTypeElastiCache,
	"memcached":            domain.ServiceTypeElastiCache,
	"awslambdafunction":    domain.ServiceTypeLambda,
	"awsec2instance":       domain.ServiceTypeEC2,
	"awsec2securitygroup":  domain.ServiceTypeSecurityGroup,
	"awsrdsdbinstance":     domain.ServiceTypeRDS,
	"awss3bucket":          domain.ServiceTypeS3,
	"awsapigatewayrestapi": domain.ServiceTypeAPIGateway,
}

// arnNamespaces maps the service namespace segment of an ARN (the third
// colon-delimited field) to service types.
var arnNamespaces = map[string]domain.ServiceType{
	"lambda":               domain.ServiceTypeLambda,
	"ec2":                  domain.ServiceTypeEC2,
	"rds":                  domain.ServiceTypeRDS,
	"dynamodb":             domain.ServiceTypeDynamoDB,
	"s3":                   domain.ServiceTypeS3,
	"sqs":                  domain.ServiceTypeSQS,
	"sns":                  domain.ServiceTypeSNS,
	"execute-api":          domain.ServiceTypeAPIGateway,
	"apigateway":           domain.ServiceTypeAPIGateway,
	"elasticloadbalancing": domain.ServiceTypeALB,
	"iam":                  domain.ServiceTypeIAM,
	"cloudwatch":           domain.ServiceTypeCloudWatch,
	"monitoring":           domain.ServiceTypeCloudWatch,
	"logs":                 domain.ServiceTypeCloudWatch,
	"cloudtrail":           domain.ServiceTypeCloudTrail,
	"ecs":                  domain.ServiceTypeECS,
	"states":               domain.ServiceTypeStepFunctions,
	"events":               domain.ServiceTypeEventBridge,
	"elasticache":          domain.ServiceTypeElastiCache,
}

// idPrefixes maps well-known resource-id prefixes to service types. Checked
// longest-first so "subnet-" wins over a hypothetical shorter overlap.
var idPrefixes = []struct {
	Prefix string
	Type   domain.ServiceType
}{
	{"subnet-", domain.ServiceTypeSubnet},
	{"vpc-", domain.ServiceTypeVPC},
	{"sg-", domain.ServiceTypeSecurityGroup},
	{"nat-", domain.ServiceTypeNAT},
	{"igw-", domain.ServiceTypeInternetGateway},
	{"eni-", domain.ServiceTypeEC2},
	{"vol-", domain.ServiceTypeEC2},
	{"i-", domain.ServiceTypeEC2},
}

// Classify resolves an asset node to exactly one ServiceType.
func Classify(node domain.AssetNode) domain.ServiceType {
	if t, ok := lookupAlias(node.Type); ok {
		return t
	}
	if t, ok := lookupARNNamespace(node.ARN); ok {
		return t
	}
	if t, ok := lookupIDPrefix(node.ID); ok {
		return t
	}
	return domain.ServiceTypeDefault
}

// BuildIndex classifies every node and returns an id -> ServiceType index for
// edge resolution. Nodes without an id are skipped (input malformation is
// dropped element-wise, never fatal).
func BuildIndex(nodes []domain.AssetNode) map[string]domain.ServiceType {
	index := make(map[string]domain.ServiceType, len(nodes))
	for _, node := range nodes {
		if node.ID == "" {
			continue
		}
		index[node.ID] = Classify(node)
	}
	return index
}

func lookupAlias(label string) (domain.ServiceType, bool) {
	if label == "" {
		return "", false
	}
	normalized := normalizeLabel(label)
	t, ok := typeAliases[normalized]
	return t, ok
}

// lookupARNNamespace extracts the service namespace from an ARN-like
// identifier: "arn:aws:lambda:us-east-1:123:function:x" -> "lambda".
func lookupARNNamespace(arn string) (domain.ServiceType, bool) {
	if arn == "" || !strings.HasPrefix(arn, "arn:") {
		return "", false
	}
	parts := strings.Split(arn, ":")
	if len(parts) < 3 || parts[2] == "" {
		return "", false
	}
	t, ok := arnNamespaces[strings.ToLower(parts[2])]
	return t, ok
}

func lookupIDPrefix(id string) (domain.ServiceType, bool) {
	if id == "" {
		return "", false
	}
	lower := strings.ToLower(id)
	for _, p := range idPrefixes {
		if strings.HasPrefix(lower, p.Prefix) {
			return p.Type, true
		}
	}
	return "", false
}

// normalizeLabel strips separators and casing so "AWS::Lambda::Function",
// "lambda_function" and "LambdaFunction" all normalize to the same key.
func normalizeLabel(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch r {
		case ':', '-', '_', ' ', '.', '/':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
