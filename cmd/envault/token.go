package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"envault/internal/logging"
	"envault/internal/token"
)

var tokenFlags struct {
	secret string
	claims []string
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage session tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a new session token and record it in the token log",
	RunE:  runTokenIssue,
}

var tokenValidateCmd = &cobra.Command{
	Use:   "validate <token>",
	Short: "Validate a session token and print its claims",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenValidate,
}

var tokenRenewCmd = &cobra.Command{
	Use:   "renew <token>",
	Short: "Issue a fresh token from a still-valid one",
	Long: `Issue a fresh token carrying the claims of the given token with a new
identifier and expiry. The source token stays valid; revoke it explicitly
if it should stop working.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenRenew,
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke <token>",
	Short: "Permanently revoke a session token",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenRevoke,
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tokens recorded in the token log",
	RunE:  runTokenList,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd, tokenValidateCmd, tokenRenewCmd, tokenRevokeCmd, tokenListCmd)

	tokenCmd.PersistentFlags().StringVarP(&tokenFlags.secret, "secret", "s", "", "signing secret (or ENVAULT_TOKEN_SECRET)")
	tokenIssueCmd.Flags().StringArrayVar(&tokenFlags.claims, "claim", nil, "claim as key=value, repeatable")
}

// newTokenManager builds a manager over the configured state directory.
func newTokenManager() (*token.Manager, *logging.Logger, error) {
	cfg, err := loadConfigOrDefault()
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	m := token.NewManager(token.Config{
		StateDir: stateDir(cfg),
		Lifetime: tokenLifetime(cfg),
	}, logger)
	return m, logger, nil
}

// signingSecret resolves the secret from the flag or the environment.
func signingSecret() (string, error) {
	if tokenFlags.secret != "" {
		return tokenFlags.secret, nil
	}
	if s := os.Getenv("ENVAULT_TOKEN_SECRET"); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("no signing secret: pass --secret or set ENVAULT_TOKEN_SECRET")
}

func parseClaims(pairs []string) (map[string]interface{}, error) {
	claims := map[string]interface{}{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid claim %q, want key=value", pair)
		}
		claims[key] = value
	}
	return claims, nil
}

func runTokenIssue(cmd *cobra.Command, args []string) error {
	secret, err := signingSecret()
	if err != nil {
		return err
	}
	claims, err := parseClaims(tokenFlags.claims)
	if err != nil {
		return err
	}

	m, logger, err := newTokenManager()
	if err != nil {
		return err
	}
	defer logger.Close()

	tok, err := m.Generate(claims, secret)
	if err != nil {
		return err
	}
	if err := m.Persist(tok); err != nil {
		return err
	}

	fmt.Println(tok)
	return nil
}

func runTokenValidate(cmd *cobra.Command, args []string) error {
	secret, err := signingSecret()
	if err != nil {
		return err
	}

	m, logger, err := newTokenManager()
	if err != nil {
		return err
	}
	defer logger.Close()

	claims, err := m.Validate(args[0], secret)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runTokenRenew(cmd *cobra.Command, args []string) error {
	secret, err := signingSecret()
	if err != nil {
		return err
	}

	m, logger, err := newTokenManager()
	if err != nil {
		return err
	}
	defer logger.Close()

	renewed, err := m.Renew(args[0], secret)
	if err != nil {
		return err
	}
	if err := m.Persist(renewed); err != nil {
		return err
	}

	fmt.Println(renewed)
	return nil
}

func runTokenRevoke(cmd *cobra.Command, args []string) error {
	m, logger, err := newTokenManager()
	if err != nil {
		return err
	}
	defer logger.Close()

	if err := m.Revoke(args[0]); err != nil {
		return err
	}

	fmt.Println("token revoked")
	return nil
}

func runTokenList(cmd *cobra.Command, args []string) error {
	m, logger, err := newTokenManager()
	if err != nil {
		return err
	}
	defer logger.Close()

	tokens := m.LoadPersisted()
	if len(tokens) == 0 {
		fmt.Println("no tokens recorded")
		return nil
	}
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	return nil
}
