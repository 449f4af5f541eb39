package cli

import (
	"github.com/dmitrijs2005/passync/internal/buildinfo"
	"github.com/dmitrijs2005/passync/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the passync command tree bound to a.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "passync",
		Short: "Keep password manager exports in sync with a cloud drive",
		Long: `passync compares the newest password export in a local directory with the
newest one in a directory on the cloud drive and copies it to the side that
is behind.`,
		Version:       buildinfo.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", config.DefaultPath, "path to the YAML config file")
	pf.StringVar(&a.overrides.LocalDir, "local-dir", "", "local passwords directory (overrides paths.local_passwords_dir)")
	pf.StringVar(&a.overrides.RemoteDir, "remote-dir", "", "remote passwords directory (overrides paths.icloud_passwords_dir)")
	pf.StringVar(&a.overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newStatusCmd(a),
		newSyncCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)

	return root
}
