package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/auth"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Hashes a password for the auth_pass setting (Argon2id).",
	RunE: func(cmd *cobra.Command, args []string) error {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return errors.New("hash-password needs an interactive terminal")
		}

		fmt.Fprint(os.Stderr, "Enter password:   ")
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stderr, "Confirm password: ")
		confirm, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}

		if len(password) == 0 {
			return errors.New("password cannot be empty")
		}
		if string(password) != string(confirm) {
			return errors.New("passwords do not match")
		}

		hash, err := auth.HashPassword(string(password))
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
