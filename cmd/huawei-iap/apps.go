package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BatuhanK/huawei-inapp/internal/service"
)

func newAppsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage the apps allowed to call the gateway",
	}

	var clientID, clientSecret, apiKey string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Register an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeService, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeService()

			if err := svc.RegisterApp(args[0], clientID, clientSecret, apiKey); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered app '%s'\n", args[0])
			return nil
		},
	}
	// these shadow the root's one-off verification credentials
	add.Flags().StringVar(&clientID, "client-id", "", "Huawei client ID of the app")
	add.Flags().StringVar(&clientSecret, "client-secret", "", "Huawei client secret of the app")
	add.Flags().StringVar(&apiKey, "api-key", "", "key the app authenticates to the gateway with")
	_ = add.MarkFlagRequired("client-id")
	_ = add.MarkFlagRequired("client-secret")
	_ = add.MarkFlagRequired("api-key")

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered apps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeService, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeService()

			apps, err := svc.ListApps()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCLIENT ID")
			for _, app := range apps {
				fmt.Fprintf(w, "%s\t%s\n", app.Name, app.ClientID)
			}
			return w.Flush()
		},
	}

	remove := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeService, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeService()

			if err := svc.RemoveApp(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed app '%s'\n", args[0])
			return nil
		},
	}

	hashKey := &cobra.Command{
		Use:   "hash-key KEY",
		Short: "Print the key_hash for an app definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// hashing needs neither the database nor huawei
			svc := service.New(nil, nil, c.passwordMode, c.log)
			hash, err := svc.HashKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}

	cmd.AddCommand(add, list, remove, hashKey)
	return cmd
}
