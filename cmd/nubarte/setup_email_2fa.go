package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func setupEmail2FACmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup-email-2fa",
		Short: "Enable the emailed-code second factor for the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			masked, err := a.service.BeginEmailSecondFactorSetup(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Código enviado a %s\n", masked)

			reader := bufio.NewReader(os.Stdin)
			code, err := promptLine(reader, "Código: ")
			if err != nil {
				return err
			}
			if err := a.service.ConfirmEmailSecondFactorSetup(ctx, code); err != nil {
				return err
			}
			fmt.Println("Email 2FA activado para tu cuenta")
			return nil
		},
	}
	return cmd
}
