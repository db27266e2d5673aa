package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sp3clock/internal/ftpsource"
	"sp3clock/internal/repository/directory"
	"sp3clock/internal/service"
	"sp3clock/internal/storage"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download new SP3 files from the remote archive into --dir",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
	store, err := storage.NewDir(dataDir)
	if err != nil {
		return err
	}
	svc := service.NewSyncService(
		ftpsource.Dialer(cfg.FTP),
		store,
		directory.NewProductDirectory(dataDir),
		service.WithObjectKey(func(name string) string { return name }),
		service.WithSyncLogger(log),
	)

	report, err := svc.Sync(cmd.Context())
	if err != nil {
		return err
	}
	return printSync(cmd, report)
}

func printSync(cmd *cobra.Command, r *service.SyncReport) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(w, r)
	}
	if r.New == 0 {
		fmt.Fprintf(w, "%s (%d files on the server)\n", okStyle.Render("Up to date"), r.Remote)
		return nil
	}
	fmt.Fprintf(w, "%d on the server, %d new, %d downloaded\n", r.Remote, r.New, len(r.Downloaded))
	list(w, "Downloaded", okStyle, r.Downloaded)
	list(w, "Skipped", mutedStyle, r.Skipped)
	failed := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		failed = append(failed, f.Name+": "+f.Error)
	}
	list(w, "Failed", errStyle, failed)
	if len(r.Failed) > 0 {
		return fmt.Errorf("%d of %d downloads failed", len(r.Failed), r.New)
	}
	return nil
}
