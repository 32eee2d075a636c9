package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DMX-Projects/time4kids-sub001/internal/client/repo"
	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

const mediaPath = "/media/"

func newMediaCmd(a *app) *cobra.Command {
	roles := []models.Role{models.RoleAdmin, models.RoleFranchise}
	cmd := &cobra.Command{Use: "media", Short: "Manage gallery media"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List media records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(cmd.Context(), roles...); err != nil {
				return err
			}
			lib := repo.NewMediaLibrary(a.manager, mediaPath)
			records, err := lib.Load(cmd.Context())
			if err != nil {
				return err
			}
			// Resolve relative media paths for display.
			for i := range records {
				records[i].URL = a.api.MediaURL(records[i].URL)
			}
			return printJSON(cmd, records)
		},
	})

	var title, kind string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(cmd.Context(), roles...); err != nil {
				return err
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			name := filepath.Base(args[0])
			if title == "" {
				title = name
			}
			lib := repo.NewMediaLibrary(a.manager, mediaPath)
			created, err := lib.Upload(cmd.Context(), title, kind, name, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s: %s\n", created.ID, a.api.MediaURL(created.URL))
			return nil
		},
	}
	upload.Flags().StringVar(&title, "title", "", "media title (defaults to the file name)")
	upload.Flags().StringVar(&kind, "kind", "image", "media kind (image, video)")
	cmd.AddCommand(upload)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a media record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(cmd.Context(), roles...); err != nil {
				return err
			}
			lib := repo.NewMediaLibrary(a.manager, mediaPath)
			if err := lib.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	})

	return cmd
}
