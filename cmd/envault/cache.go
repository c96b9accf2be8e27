package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"envault/internal/cache"
	"envault/internal/crypto"
)

var cacheFlags struct {
	token string
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the encrypted secret cache",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Decrypt and print the cached secrets",
	Long: `Decrypt the on-disk cache with a key derived from the given session
token and print the snapshot as JSON. A missing cache, or a token that does
not match the one the cache was saved under, yields an empty snapshot.`,
	RunE: runCacheShow,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete the encrypted cache file",
	RunE:  runCachePurge,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheShowCmd, cachePurgeCmd)

	cacheShowCmd.Flags().StringVarP(&cacheFlags.token, "token", "t", "", "session token the cache was saved under (required)")
	_ = cacheShowCmd.MarkFlagRequired("token")
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigOrDefault()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	store := cache.NewStore(stateDir(cfg), logger)
	snapshot := store.Load(crypto.DeriveKey(cacheFlags.token))

	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigOrDefault()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	store := cache.NewStore(stateDir(cfg), logger)
	if err := store.DeleteCacheFile(); err != nil {
		return err
	}

	fmt.Println("cache purged")
	return nil
}
