package main

import (
	"fmt"

	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/spf13/cobra"
)

func newAuthURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth-url",
		Short: "Print an authorization URL for a tenant",
		Long: `Issue a state and print the provider authorization URL. The state
only survives this process when OAUTH_STATE_STORE=redis.

Examples:
  gateway auth-url --provider google --tenant t1 --scopes calendar,sheets
  gateway auth-url --provider shopify --tenant t1 --shop my-store`,
		RunE: runAuthURL,
	}

	cmd.Flags().String("provider", "", "provider id")
	cmd.Flags().String("tenant", "", "tenant id")
	cmd.Flags().StringSlice("scopes", nil, "scope keys (default: provider defaults)")
	cmd.Flags().String("shop", "", "Shopify shop name")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func runAuthURL(cmd *cobra.Command, _ []string) error {
	config, err := cfg.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	gw, closeAll, err := openGateway(cmd.Context(), config)
	if err != nil {
		return err
	}
	defer closeAll()

	provider, _ := cmd.Flags().GetString("provider")
	tenant, _ := cmd.Flags().GetString("tenant")
	scopes, _ := cmd.Flags().GetStringSlice("scopes")
	shop, _ := cmd.Flags().GetString("shop")

	if config.OAuth.StateStore != cfg.StateStoreRedis {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: in-memory state store, the callback will be rejected by a different process")
	}

	url, err := gw.AuthURL(cmd.Context(), provider, tenant, scopes, shop)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
