package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"internhunt-engine/internal/secrets"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the GitHub token kept in the OS keychain",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store a GitHub token (reads stdin when no argument is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tok string
		if len(args) == 1 {
			tok = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.Wrap(err, "read token from stdin")
			}
			tok = line
		}
		if err := secrets.SetGitHubToken(strings.TrimSpace(tok)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "token stored")
		return nil
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored GitHub token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := secrets.DeleteGitHubToken(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "token deleted")
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenDeleteCmd)
}
