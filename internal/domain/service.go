package domain

// ServiceType is the closed set of service categories a discovered asset can
// resolve to. Every asset resolves to exactly one ServiceType; assets that
// match nothing resolve to ServiceTypeDefault so unclassified resources stay
// visible in the topology instead of silently vanishing.
type ServiceType string

const (
	ServiceTypeLambda          ServiceType = "LAMBDA"
	ServiceTypeEC2             ServiceType = "EC2"
	ServiceTypeRDS             ServiceType = "RDS"
	ServiceTypeDynamoDB        ServiceType = "DYNAMODB"
	ServiceTypeS3              ServiceType = "S3"
	ServiceTypeSQS             ServiceType = "SQS"
	ServiceTypeSNS             ServiceType = "SNS"
	ServiceTypeAPIGateway      ServiceType = "API_GATEWAY"
	ServiceTypeALB             ServiceType = "ALB"
	ServiceTypeSecurityGroup   ServiceType = "SECURITY_GROUP"
	ServiceTypeIAM             ServiceType = "IAM"
	ServiceTypeCloudWatch      ServiceType = "CLOUDWATCH"
	ServiceTypeCloudTrail      ServiceType = "CLOUDTRAIL"
	ServiceTypeVPC             ServiceType = "VPC"
	ServiceTypeSubnet          ServiceType = "SUBNET"
	ServiceTypeNAT             ServiceType = "NAT"
	ServiceTypeInternetGateway ServiceType = "INTERNET_GATEWAY"
	ServiceTypeECS             ServiceType = "ECS"
	ServiceTypeStepFunctions   ServiceType = "STEP_FUNCTIONS"
	ServiceTypeEventBridge     ServiceType = "EVENTBRIDGE"
	ServiceTypeElastiCache     ServiceType = "ELASTICACHE"
	ServiceTypeDefault         ServiceType = "DEFAULT"
)

// AllServiceTypes lists every ServiceType in stable order. Iteration over
// classification results must go through a stable order like this one so
// layout stays deterministic regardless of input ordering.
var AllServiceTypes = []ServiceType{
	ServiceTypeALB,
	ServiceTypeAPIGateway,
	ServiceTypeCloudTrail,
	ServiceTypeCloudWatch,
	ServiceTypeDefault,
	ServiceTypeDynamoDB,
	ServiceTypeEC2,
	ServiceTypeECS,
	ServiceTypeElastiCache,
	ServiceTypeEventBridge,
	ServiceTypeIAM,
	ServiceTypeInternetGateway,
	ServiceTypeLambda,
	ServiceTypeNAT,
	ServiceTypeRDS,
	ServiceTypeS3,
	ServiceTypeSNS,
	ServiceTypeSQS,
	ServiceTypeSecurityGroup,
	ServiceTypeStepFunctions,
	ServiceTypeSubnet,
	ServiceTypeVPC,
}

// displayNames maps each ServiceType to its human-readable label.
var displayNames = map[ServiceType]string{
	ServiceTypeLambda:          "Lambda",
	ServiceTypeEC2:             "EC2",
	ServiceTypeRDS:             "RDS",
	ServiceTypeDynamoDB:        "DynamoDB",
	ServiceTypeS3:              "S3",
	ServiceTypeSQS:             "SQS",
	ServiceTypeSNS:             "SNS",
	ServiceTypeAPIGateway:      "API Gateway",
	ServiceTypeALB:             "Load Balancer",
	ServiceTypeSecurityGroup:   "Security Group",
	ServiceTypeIAM:             "IAM",
	ServiceTypeCloudWatch:      "CloudWatch",
	ServiceTypeCloudTrail:      "CloudTrail",
	ServiceTypeVPC:             "VPC",
	ServiceTypeSubnet:          "Subnet",
	ServiceTypeNAT:             "NAT Gateway",
	ServiceTypeInternetGateway: "Internet Gateway",
	ServiceTypeECS:             "ECS",
	ServiceTypeStepFunctions:   "Step Functions",
	ServiceTypeEventBridge:     "EventBridge",
	ServiceTypeElastiCache:     "ElastiCache",
	ServiceTypeDefault:         "Unclassified",
}

// DisplayName returns the human-readable label for a ServiceType.
func (s ServiceType) DisplayName() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

// IsContainer reports whether the type is a grouping boundary (VPC, Subnet)
// rather than an endpoint. Container types are classified but excluded from
// service aggregation and from flow endpoints.
func (s ServiceType) IsContainer() bool {
	return s == ServiceTypeVPC || s == ServiceTypeSubnet
}
