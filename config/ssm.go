package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// OverlaySSM copies every parameter under CONFIG_SSM_PATH into the env map.
// Parameter names are reduced to their last path element, so
// /portfolio/prod/JWT_SECRET becomes JWT_SECRET. Values already set in the
// environment win over the parameter store.
func OverlaySSM(ctx context.Context, c map[string]string) error {
	ssmPath := GetString(c, "CONFIG_SSM_PATH", "")
	if ssmPath == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(GetString(c, "AWS_REGION", "us-east-1")))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	return overlayFromClient(ctx, ssm.NewFromConfig(awsCfg), ssmPath, c)
}

func overlayFromClient(ctx context.Context, client ssm.GetParametersByPathAPIClient, ssmPath string, c map[string]string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(ssmPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("read ssm parameters under %s: %w", ssmPath, err)
		}
		for _, p := range page.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if existing, ok := c[key]; ok && existing != "" {
				continue
			}
			c[key] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("component", "config").Str("path", ssmPath).Int("parameters", loaded).Msg("loaded parameters from SSM")
	return nil
}
