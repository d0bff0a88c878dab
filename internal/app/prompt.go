package app

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"savesync/internal/config"
)

// PromptMissingPasswords interactively fills in the password for every
// device configured with a username but no stored password. Keeping
// passwords out of the config file is the only secret handling this tool
// does.
func PromptMissingPasswords(cfg *config.Config) error {
	for i := range cfg.Devices {
		d := &cfg.Devices[i]
		if d.Username == "" || d.Password != "" {
			continue
		}
		fmt.Fprintf(os.Stderr, "Password for %s@%s: ", d.Username, d.Name)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading password for %s: %w", d.Name, err)
		}
		d.Password = string(pw)
	}
	return nil
}
