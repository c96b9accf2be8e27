package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter envault configuration file",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

const starterConfig = `# envault configuration
vault: aws            # aws, azure, gcp or bitwarden
secret_name: <your_secret_name>
env_file: .env

# sso_profile: my-profile   # AWS shared-config profile
# vault_url: https://<name>.vault.azure.net   # required for azure
# project_id: my-project                      # required for gcp

token:
  lifetime_seconds: 10800

logging:
  level: info
`

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil {
		fmt.Printf("%s already exists, leaving it untouched\n", cfgFile)
		return nil
	}

	if err := os.WriteFile(cfgFile, []byte(starterConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfgFile, err)
	}

	fmt.Printf("%s has been created\n", cfgFile)
	return nil
}
