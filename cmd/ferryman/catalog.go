package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ferryman/internal/catalog"
	"ferryman/internal/credentials"
	"ferryman/internal/repository"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <catalog.yaml>",
	Short: "Create or update endpoints, groups and jobs from a catalog file",
	Long: `Create or update endpoints, groups and jobs from a catalog file.

Entries are matched by name. Plain text endpoint passwords are encrypted
with the configured key before they are stored. A running service picks
up new jobs on its next start.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importCatalog(cmd.OutOrStdout(), afero.NewOsFs(), args[0])
	},
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a secret read from stdin for use as password_encrypted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := credentials.New(cfg.GetEncryption())
		if err != nil {
			return err
		}
		return encryptSecret(cmd.InOrStdin(), cmd.OutOrStdout(), store)
	},
}

var genkeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Print a new random value for encryption.key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := credentials.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, encryptCmd, genkeyCmd)
}

func importCatalog(out io.Writer, fs afero.Fs, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := catalog.Load(fs, path)
	if err != nil {
		return err
	}

	repo, err := repository.New(cfg.GetDatabase().Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repo.Close()

	var sealer catalog.Encrypter
	store, err := credentials.New(cfg.GetEncryption())
	switch {
	case err == nil:
		sealer = store
	case !errors.Is(err, credentials.ErrNoKey):
		return err
	default:
		slog.Warn("no encryption key configured, catalog passwords are rejected")
	}

	summary, err := catalog.Import(repo, sealer, c)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(out, "endpoints: %d created, %d updated\n", summary.EndpointsCreated, summary.EndpointsUpdated)
	fmt.Fprintf(out, "groups:    %d created, %d updated\n", summary.GroupsCreated, summary.GroupsUpdated)
	fmt.Fprintf(out, "jobs:      %d created, %d updated\n", summary.JobsCreated, summary.JobsUpdated)
	return nil
}

// encryptSecret seals the first line of in.
func encryptSecret(in io.Reader, out io.Writer, sealer catalog.Encrypter) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		return fmt.Errorf("no secret on stdin")
	}

	sealed, err := sealer.Encrypt(secret)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, sealed)
	return nil
}
