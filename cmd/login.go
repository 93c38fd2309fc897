package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the Drive backend (OAuth authorization code flow)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := driveClient()
		if err != nil {
			return err
		}

		fmt.Println("Open this URL in a browser and approve access:")
		fmt.Println()
		fmt.Println("  " + client.AuthURL("state-token"))
		fmt.Println()
		fmt.Print("Paste the authorization code here: ")

		reader := bufio.NewReader(os.Stdin)
		code, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		code = strings.TrimSpace(code)
		if code == "" {
			return fmt.Errorf("no authorization code entered")
		}

		if err := client.AcquireToken(ctx, code); err != nil {
			return err
		}
		if profile, err := client.FetchProfile(ctx); err == nil {
			fmt.Printf("Signed in as %s <%s>\n", profile.Name, profile.Email)
		} else {
			fmt.Println("Signed in.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
