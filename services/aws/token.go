// Package aws generates RDS IAM authentication tokens and enumerates the
// AWS profiles configured on this machine.
package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"

	"github.com/pgvault/pgvault/vault"
)

// GenerateToken builds a short-lived RDS auth token for the connection,
// using the given shared-config profile (empty means the default chain).
// The token stands in for the password and is never stored.
func GenerateToken(ctx context.Context, conn vault.Connection, profile string) (string, error) {
	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("load AWS configuration: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = regionFromHost(conn.Host)
	}
	if region == "" {
		return "", fmt.Errorf("no AWS region configured and none derivable from host %s", conn.Host)
	}

	token, err := auth.BuildAuthToken(ctx, conn.Addr(), region, conn.Username, cfg.Credentials)
	if err != nil {
		return "", fmt.Errorf("build RDS auth token: %w", err)
	}

	return token, nil
}

// regionFromHost extracts the region from an RDS endpoint such as
// mydb.abc123.us-east-1.rds.amazonaws.com. Empty when the host does not
// look like one.
func regionFromHost(host string) string {
	parts := strings.Split(host, ".")
	for i, part := range parts {
		if part == "rds" && i > 0 {
			return parts[i-1]
		}
	}
	return ""
}

// NeedsSSOLogin reports whether an error from token generation indicates an
// expired or missing SSO session, so the caller can hint `aws sso login`.
func NeedsSSOLogin(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "sso") ||
		strings.Contains(msg, "token has expired") ||
		strings.Contains(msg, "refresh_token") ||
		strings.Contains(msg, "token is expired")
}
