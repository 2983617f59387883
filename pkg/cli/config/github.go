package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/issuecheck/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/issuecheck/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token          string `masq:"secret"`
	APIURL         string
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for the checks API",
			Destination: &c.Token,
			Sources:     cli.EnvVars("INPUT_GITHUB_TOKEN", "ISSUECHECK_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API URL (set for GitHub Enterprise Server)",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("ISSUECHECK_GITHUB_API_URL", "GITHUB_API_URL"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used instead of a token when set",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("ISSUECHECK_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("ISSUECHECK_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM content or path to a PEM file)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("ISSUECHECK_GITHUB_APP_PRIVATE_KEY"),
		},
	}
}

// useApp reports whether GitHub App credentials are configured
func (c *GitHub) useApp() bool {
	return c.AppID != 0 || c.InstallationID != 0 || c.PrivateKey != ""
}

// NewClient builds a GitHub client from the configured credentials.
// GitHub App credentials take precedence over a token.
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	var opts []githubinfra.Option
	if c.APIURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.APIURL))
	}

	if !c.useApp() {
		if c.Token == "" {
			return nil, goerr.New("either --github-token or GitHub App credentials are required")
		}
		return githubinfra.NewClient(c.Token, opts...)
	}

	if c.AppID == 0 || c.InstallationID == 0 || c.PrivateKey == "" {
		return nil, goerr.New("GitHub App requires app ID, installation ID and private key",
			goerr.V("app_id", c.AppID),
			goerr.V("installation_id", c.InstallationID),
		)
	}

	key, err := c.privateKey()
	if err != nil {
		return nil, err
	}
	return githubinfra.NewAppClient(c.AppID, c.InstallationID, key, opts...)
}

func (c *GitHub) privateKey() ([]byte, error) {
	if _, err := os.Stat(c.PrivateKey); err == nil {
		data, err := os.ReadFile(c.PrivateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKey))
		}
		return data, nil
	}
	return []byte(c.PrivateKey), nil
}
