package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/DMX-Projects/time4kids-sub001/internal/client/repo"
	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

// newResourceCmd builds the list/add/update/delete command set for one
// remote collection. Every entity shares this shape; only the record
// type, path and allowed roles differ.
func newResourceCmd[T repo.Identifiable](a *app, use, short, path string, roles ...models.Role) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List " + use,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(cmd.Context(), roles...); err != nil {
				return err
			}
			coll := repo.NewCollection[T](a.manager, path)
			records, err := coll.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, records)
		},
	})

	var addPayload string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(cmd.Context(), roles...); err != nil {
				return err
			}
			rec, err := decodePayload[T](cmd, addPayload)
			if err != nil {
				return err
			}
			coll := repo.NewCollection[T](a.manager, path)
			created, err := coll.Add(cmd.Context(), rec)
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}
	add.Flags().StringVar(&addPayload, "json", "", "record JSON (reads stdin when omitted)")
	cmd.AddCommand(add)

	var updatePayload string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update a record by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(cmd.Context(), roles...); err != nil {
				return err
			}
			rec, err := decodePayload[T](cmd, updatePayload)
			if err != nil {
				return err
			}
			if rec.RecordID() == "" {
				return errors.New("record JSON must carry an id")
			}
			coll := repo.NewCollection[T](a.manager, path)
			updated, err := coll.Update(cmd.Context(), rec)
			if err != nil {
				return err
			}
			return printJSON(cmd, updated)
		},
	}
	update.Flags().StringVar(&updatePayload, "json", "", "record JSON (reads stdin when omitted)")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(cmd.Context(), roles...); err != nil {
				return err
			}
			coll := repo.NewCollection[T](a.manager, path)
			if err := coll.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	})

	return cmd
}

func decodePayload[T any](cmd *cobra.Command, flagValue string) (T, error) {
	var rec T
	raw := []byte(flagValue)
	if flagValue == "" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return rec, err
		}
		raw = b
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("invalid record JSON: %w", err)
	}
	return rec, nil
}
