package awsconf

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Load builds the AWS configuration. A non-empty endpoint routes every
// call to that URL (LocalStack and friends) with static credentials;
// otherwise the standard credential chain applies.
func Load(ctx context.Context, region, endpoint string) (aws.Config, error) {
	if endpoint != "" {
		slog.Info("Using custom AWS endpoint", "endpoint", endpoint)
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:           endpoint,
				SigningRegion: region,
				PartitionID:   "aws",
			}, nil
		})
		return awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(region),
			awsConfig.WithEndpointResolverWithOptions(resolver),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		)
	}

	return awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
}
