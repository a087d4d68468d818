// Package cmd implements the command-line interface for jellysan.
package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/jellysan-cli/jellysan/auth"
	"github.com/jellysan-cli/jellysan/color"
	"github.com/jellysan-cli/jellysan/icon"
	"github.com/jellysan-cli/jellysan/jellyfin"
	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

// loginCmd authenticates against the media server and persists the session.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the media server",
	Long: `Authenticate against the media server with a username and password.
The access token is stored in the system keyring; the server URL and user
identity go to the configuration file.`,
	Run: func(cmd *cobra.Command, args []string) {
		serverURL := viper.GetString(key.ServerURL)
		handleErr(survey.AskOne(&survey.Input{
			Message: "Server URL:",
			Default: serverURL,
		}, &serverURL, survey.WithValidator(survey.Required)))

		username := viper.GetString(key.ServerUsername)
		handleErr(survey.AskOne(&survey.Input{
			Message: "Username:",
			Default: username,
		}, &username, survey.WithValidator(survey.Required)))

		var password string
		handleErr(survey.AskOne(&survey.Password{
			Message: "Password:",
		}, &password))

		deviceID := viper.GetString(key.ServerDeviceID)
		if deviceID == "" {
			deviceID = newDeviceID()
		}

		client := jellyfin.NewWith(serverURL, "", "", deviceID)
		session, err := client.Authenticate(username, password)
		handleErr(err)

		handleErr(auth.SetToken(session.Token))

		viper.Set(key.ServerURL, serverURL)
		viper.Set(key.ServerUsername, session.UserName)
		viper.Set(key.ServerUserID, session.UserID)
		viper.Set(key.ServerDeviceID, deviceID)
		switch err := viper.WriteConfig(); err.(type) {
		case viper.ConfigFileNotFoundError:
			handleErr(viper.SafeWriteConfig())
		default:
			handleErr(err)
		}

		fmt.Printf(
			"%s logged in as %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(session.UserName),
		)
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// logoutCmd drops the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored media server session",
	Run: func(cmd *cobra.Command, args []string) {
		if err := auth.DeleteToken(); err != nil {
			handleErr(errors.New("no stored session to drop"))
		}

		viper.Set(key.ServerUserID, "")
		switch err := viper.WriteConfig(); err.(type) {
		case viper.ConfigFileNotFoundError:
		default:
			handleErr(err)
		}

		fmt.Printf("%s logged out\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// newDeviceID generates a stable random identifier for this installation.
func newDeviceID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
