package discovery

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"topomap/internal/domain"
)

// collectNetwork enumerates EC2 instances, security groups, VPCs, subnets,
// NAT gateways and internet gateways, plus the edges the EC2 control plane
// implies: attachments, container membership, and public ingress rules.
func (c *Clients) collectNetwork(ctx context.Context, graph *domain.RawGraph) error {
	if err := c.collectInstances(ctx, graph); err != nil {
		return err
	}
	if err := c.collectSecurityGroups(ctx, graph); err != nil {
		return err
	}
	if err := c.collectContainers(ctx, graph); err != nil {
		return err
	}
	return c.collectGateways(ctx, graph)
}

func (c *Clients) collectInstances(ctx context.Context, graph *domain.RawGraph) error {
	paginator := ec2.NewDescribeInstancesPaginator(c.EC2, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("describing instances: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				id := aws.ToString(instance.InstanceId)
				graph.Nodes = append(graph.Nodes, domain.AssetNode{
					ID:   id,
					Name: ec2NameTag(instance.Tags),
					Type: "EC2Instance",
					Tags: ec2TagMap(instance.Tags),
				})
				for _, sg := range instance.SecurityGroups {
					graph.Edges = append(graph.Edges, domain.Relationship{
						Source: id,
						Target: aws.ToString(sg.GroupId),
						Type:   "ALLOWED_ONLY",
					})
				}
				if subnetID := aws.ToString(instance.SubnetId); subnetID != "" {
					graph.Edges = append(graph.Edges, domain.Relationship{
						Source: id,
						Target: subnetID,
						Type:   "MEMBER_OF",
					})
				}
			}
		}
	}
	return nil
}

func (c *Clients) collectSecurityGroups(ctx context.Context, graph *domain.RawGraph) error {
	paginator := ec2.NewDescribeSecurityGroupsPaginator(c.EC2, &ec2.DescribeSecurityGroupsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("describing security groups: %w", err)
		}
		for _, sg := range page.SecurityGroups {
			id := aws.ToString(sg.GroupId)
			graph.Nodes = append(graph.Nodes, domain.AssetNode{
				ID:   id,
				Name: aws.ToString(sg.GroupName),
				Type: "SecurityGroup",
				Tags: ec2TagMap(sg.Tags),
			})
			for _, rule := range sg.IpPermissions {
				if !ruleIsPublic(rule) {
					continue
				}
				graph.Edges = append(graph.Edges, domain.Relationship{
					Source:   domain.InternetNodeID,
					Target:   id,
					Type:     "INTERNET_INGRESS_ALLOWED",
					Port:     rulePort(rule),
					Protocol: ruleProtocol(rule),
				})
			}
		}
	}
	return nil
}

func (c *Clients) collectContainers(ctx context.Context, graph *domain.RawGraph) error {
	vpcs, err := c.EC2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{})
	if err != nil {
		return fmt.Errorf("describing VPCs: %w", err)
	}
	for _, vpc := range vpcs.Vpcs {
		graph.Nodes = append(graph.Nodes, domain.AssetNode{
			ID:   aws.ToString(vpc.VpcId),
			Name: ec2NameTag(vpc.Tags),
			Type: "VPC",
		})
	}

	subnets, err := c.EC2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{})
	if err != nil {
		return fmt.Errorf("describing subnets: %w", err)
	}
	for _, subnet := range subnets.Subnets {
		id := aws.ToString(subnet.SubnetId)
		graph.Nodes = append(graph.Nodes, domain.AssetNode{
			ID:   id,
			Name: ec2NameTag(subnet.Tags),
			Type: "Subnet",
		})
		if vpcID := aws.ToString(subnet.VpcId); vpcID != "" {
			graph.Edges = append(graph.Edges, domain.Relationship{
				Source: id,
				Target: vpcID,
				Type:   "MEMBER_OF",
			})
		}
	}
	return nil
}

func (c *Clients) collectGateways(ctx context.Context, graph *domain.RawGraph) error {
	nats, err := c.EC2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{})
	if err != nil {
		return fmt.Errorf("describing NAT gateways: %w", err)
	}
	for _, nat := range nats.NatGateways {
		graph.Nodes = append(graph.Nodes, domain.AssetNode{
			ID:   aws.ToString(nat.NatGatewayId),
			Type: "NatGateway",
			Tags: ec2TagMap(nat.Tags),
		})
	}

	igws, err := c.EC2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{})
	if err != nil {
		return fmt.Errorf("describing internet gateways: %w", err)
	}
	for _, igw := range igws.InternetGateways {
		id := aws.ToString(igw.InternetGatewayId)
		graph.Nodes = append(graph.Nodes, domain.AssetNode{
			ID:   id,
			Name: ec2NameTag(igw.Tags),
			Type: "InternetGateway",
		})
		for _, attachment := range igw.Attachments {
			if vpcID := aws.ToString(attachment.VpcId); vpcID != "" {
				graph.Edges = append(graph.Edges, domain.Relationship{
					Source: id,
					Target: vpcID,
					Type:   "ATTACHED_TO",
				})
			}
		}
	}
	return nil
}

// ruleIsPublic reports whether an ingress rule opens to the whole internet.
func ruleIsPublic(rule ec2types.IpPermission) bool {
	for _, r := range rule.IpRanges {
		if aws.ToString(r.CidrIp) == "0.0.0.0/0" {
			return true
		}
	}
	for _, r := range rule.Ipv6Ranges {
		if aws.ToString(r.CidrIpv6) == "::/0" {
			return true
		}
	}
	return false
}

func rulePort(rule ec2types.IpPermission) string {
	from := aws.ToInt32(rule.FromPort)
	to := aws.ToInt32(rule.ToPort)
	switch {
	case from == 0 && to == 0:
		return ""
	case from == to:
		return fmt.Sprintf("%d", from)
	case from == 0 && to == 65535:
		return "all"
	default:
		return fmt.Sprintf("%d-%d", from, to)
	}
}

func ruleProtocol(rule ec2types.IpPermission) string {
	proto := aws.ToString(rule.IpProtocol)
	if proto == "-1" {
		return "" // all protocols
	}
	return proto
}

func ec2NameTag(tags []ec2types.Tag) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == "Name" {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}

func ec2TagMap(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}
