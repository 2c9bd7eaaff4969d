package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var signupCmd = &cobra.Command{
	Use:   "signup EMAIL",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readNewSecret("Password: ")
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "SignUp", args[0])
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.SignUp(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("Account created for %s. Run nutri signin to start a session.\n", u.Email)
		return nil
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin EMAIL",
	Short: "Start a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret("Password: ")
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "SignIn", "")
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.SignIn(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s\n", u.Email)
		return nil
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "End the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "SignOut", "")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SignOut(); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "WhoAmI", "")
		if err != nil {
			return err
		}
		defer a.Close()

		u, ok := a.CurrentUser()
		if !ok {
			fmt.Println("Not signed in")
			return nil
		}
		fmt.Printf("%s (%s)\n", u.Email, u.ID)
		return nil
	},
}

func addAccountCommands(root *cobra.Command) {
	root.AddCommand(signupCmd)
	addRequestIDFlag(signupCmd)
	root.AddCommand(signinCmd)
	root.AddCommand(signoutCmd)
	root.AddCommand(whoamiCmd)
}
