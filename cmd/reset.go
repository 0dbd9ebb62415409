package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Laisky/errors/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/BorisDmv/my-blog/internal/config"
)

var resetCMD = &cobra.Command{
	Use:   "reset-admin",
	Short: "rewrite the admin credentials in the env file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile := envFileFlag(cmd)
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		return resetAdmin(envFile, username, password, cmd.OutOrStdout())
	},
}

func init() {
	resetCMD.Flags().String("username", "", "new admin username")
	resetCMD.Flags().String("password", "", "new admin password")
	rootCMD.AddCommand(resetCMD)
}

// resetAdmin works without a valid configuration so an operator can recover
// from a missing or broken credentials file.
func resetAdmin(envFile, username, password string, out io.Writer) error {
	current := map[string]string{}
	if env, err := godotenv.Read(envFile); err == nil {
		current = env
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "read env file `%s`", envFile)
	}

	creds := config.NewCredentials(current[config.EnvAdminUsername], current[config.EnvAdminPassword], envFile)
	if err := creds.Reset(username, password); err != nil {
		return errors.Wrap(err, "reset admin credentials")
	}

	_, _ = fmt.Fprintf(out, "admin credentials written to %s\n", envFile)
	return nil
}
