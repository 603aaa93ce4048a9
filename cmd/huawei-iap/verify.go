package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

func newVerifyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a single purchase with the configured client credentials",
	}

	var productID, subscriptionID, purchaseToken string

	order := &cobra.Command{
		Use:   "order",
		Short: "Verify a one-time purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.verify(cmd, func(ctx context.Context, client *huawei.Client) (*huawei.Result, error) {
				return client.GetOrder(ctx, huawei.OrderRequest{
					ProductID:     productID,
					PurchaseToken: purchaseToken,
				})
			})
		},
	}
	order.Flags().StringVar(&productID, "product-id", "", "product ID of the purchase")
	order.Flags().StringVar(&purchaseToken, "purchase-token", "", "purchase token to verify")
	_ = order.MarkFlagRequired("product-id")
	_ = order.MarkFlagRequired("purchase-token")

	subscription := &cobra.Command{
		Use:   "subscription",
		Short: "Verify a subscription purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.verify(cmd, func(ctx context.Context, client *huawei.Client) (*huawei.Result, error) {
				return client.GetSubscription(ctx, huawei.SubscriptionRequest{
					SubscriptionID: subscriptionID,
					PurchaseToken:  purchaseToken,
				})
			})
		},
	}
	subscription.Flags().StringVar(&subscriptionID, "subscription-id", "", "subscription ID of the purchase")
	subscription.Flags().StringVar(&purchaseToken, "purchase-token", "", "purchase token to verify")
	_ = subscription.MarkFlagRequired("subscription-id")
	_ = subscription.MarkFlagRequired("purchase-token")

	cmd.AddCommand(order, subscription)
	return cmd
}

func (c *cli) verify(
	cmd *cobra.Command,
	call func(ctx context.Context, client *huawei.Client) (*huawei.Result, error),
) error {
	creds := c.cfg.Credentials()
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return errors.New("client id and client secret are required")
	}

	ctx := cmd.Context()
	opts, closeRedis, err := c.huaweiOptions(ctx)
	if err != nil {
		return err
	}
	defer closeRedis()

	result, err := call(ctx, huawei.New(creds, opts...))
	var rejected *huawei.VerificationError
	if errors.As(err, &rejected) {
		fmt.Fprintf(cmd.ErrOrStderr(), "purchase rejected: code=%s message=%s\n", rejected.Code, rejected.Message)
		return err
	}
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(
	w io.Writer,
	v any,
) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
