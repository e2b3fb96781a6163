package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/config"
	"github.com/dohr-michael/capigen/internal/secrets"
)

// NewInitCommand returns the onboarding subcommand.
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Initialize the capigen home directory (~/.capigen)",
		Action: runInit,
	}
}

func runInit(_ context.Context, cmd *cli.Command) error {
	w := out(cmd)
	root := config.CapigenPath()
	created := false

	for _, d := range []string{root, config.BuildsPath()} {
		if _, err := os.Stat(d); err != nil {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", d, err)
			}
			fmt.Fprintf(w, "  Created %s\n", d)
			created = true
		}
	}

	files := []struct {
		path    string
		content string
		perm    os.FileMode
	}{
		{config.ConfigPath(), defaultConfig, 0o600},
		{config.DotenvPath(), defaultDotenv, 0o600},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), f.perm); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
		fmt.Fprintf(w, "  Created %s\n", f.path)
		created = true
	}

	keyPath := secrets.KeyPath()
	if _, err := os.Stat(keyPath); err != nil {
		if err := secrets.GenerateIdentity(keyPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "  Created %s\n", keyPath)
		created = true
	}

	if !created {
		fmt.Fprintf(w, "%s is already initialized. Nothing to do.\n", root)
		return nil
	}

	fmt.Fprintln(w, initMessage(root))
	return nil
}

const defaultConfig = `{
	// capigen integration config
	// Values may reference environment variables: ${{ .Env.CAPI_ACCESS_TOKEN }}

	"pixelId": "",
	"accessToken": "${{ .Env.CAPI_ACCESS_TOKEN }}",
	"testEventCode": "",
	"ga4MeasurementId": "G-XXXXXXXXXX",
	"taggingServerUrl": "",
	"transportUrl": "https://sgtm.example.com",

	// At most 5 events, lowercase letters, digits and underscores.
	"events": ["page_view", "lead_submit", "contact_click", "form_start", "form_submit"]

	// Selectors default to input[name="..."] for the main layout and #id for Unbounce.
	// "selectors": { "main": { "email": "input[name=\"email\"]" } }
}
`

const defaultDotenv = `# capigen environment variables
# This file is loaded automatically. Existing env vars are never overridden.

# CAPI_ACCESS_TOKEN=EAA...
`

func initMessage(root string) string {
	return fmt.Sprintf(`
  capigen is ready at %s

  Next steps:
    1. Store the Conversions API token:
         capigen secret set CAPI_ACCESS_TOKEN <token> --encrypt
    2. Fill in pixelId and ga4MeasurementId in %s/config.jsonc
    3. Run: capigen generate --out ./gtm
`, root, root)
}
