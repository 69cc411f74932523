package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authName     string
	authEmail    string
	authPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (default: $LEARNFLOW_PASSWORD)")
		_ = c.MarkFlagRequired("email")
	}
	registerCmd.Flags().StringVar(&authName, "name", "", "Display name")
	_ = registerCmd.MarkFlagRequired("name")
}

func password() string {
	if authPassword != "" {
		return authPassword
	}
	return os.Getenv("LEARNFLOW_PASSWORD")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a := newApp()
	if err := a.store.Login(cmd.Context(), authEmail, password()); err != nil {
		exitOn(err)
	}
	u := a.store.Snapshot().Auth.User
	fmt.Printf("Logged in as %s <%s>\n", u.Name, u.Email)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a := newApp()
	if err := a.store.Register(cmd.Context(), authName, authEmail, password()); err != nil {
		exitOn(err)
	}
	u := a.store.Snapshot().Auth.User
	fmt.Printf("Registered and logged in as %s <%s>\n", u.Name, u.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a := newApp()
	if !a.gw.HasSession() {
		fmt.Println("Not logged in.")
		return nil
	}
	if err := a.store.Logout(cmd.Context()); err != nil {
		fmt.Fprintln(os.Stderr, "warning: server logout failed:", err)
	}
	a.store.SetSelectedGoal(nil)
	if err := a.store.SaveSelection(a.statePath); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a := newApp()
	if !a.gw.HasSession() {
		fmt.Println("Not logged in.")
		return nil
	}
	_ = a.store.GetCurrentUser(cmd.Context())

	auth := a.store.Snapshot().Auth
	if !auth.IsAuthenticated {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s>\n", auth.User.Name, auth.User.Email)
	if exp := a.gw.Expiry(); !exp.IsZero() {
		fmt.Printf("  Token expires: %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
