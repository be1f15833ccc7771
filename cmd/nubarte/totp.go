package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nubarte/marketplace-client/totp"
)

func totpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totp <secret>",
		Short: "Generate the current authenticator code for a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			code, err := totp.Code(args[0], now)
			if err != nil {
				return err
			}
			remaining := 30 - now.Unix()%30
			fmt.Printf("%s (válido %ds)\n", code, remaining)
			return nil
		},
	}
}
