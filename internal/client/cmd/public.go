package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/DMX-Projects/time4kids-sub001/internal/client/repo"
	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

// newPublicCmd reads the unauthenticated marketing endpoints.
func newPublicCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "public", Short: "Browse public content"}

	for _, res := range []string{"careers", "events", "updates", "franchises"} {
		path := "/public/" + res + "/"
		cmd.AddCommand(&cobra.Command{
			Use:   res,
			Short: "List public " + res,
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := a.api.FetchJSON(cmd.Context(), http.MethodGet, path, nil)
				if err != nil {
					return err
				}
				if raw == nil {
					raw = json.RawMessage(`[]`)
				}
				var pretty any
				if err := json.Unmarshal(raw, &pretty); err != nil {
					return err
				}
				return printJSON(cmd, pretty)
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "programs",
		Short: "List the program catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, repo.DefaultPrograms().Records())
		},
	})

	return cmd
}

// newEnquireCmd submits an admission enquiry, the contact form of the
// marketing site.
func newEnquireCmd(a *app) *cobra.Command {
	var enq models.Enquiry
	cmd := &cobra.Command{
		Use:   "enquire",
		Short: "Submit an admission enquiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if enq.Name == "" || enq.Email == "" {
				return fmt.Errorf("--name and --email are required")
			}
			raw, err := a.api.FetchJSON(cmd.Context(), http.MethodPost, "/public/enquiries/", enq)
			if err != nil {
				return err
			}
			created := enq
			if raw != nil {
				_ = json.Unmarshal(raw, &created)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enquiry received (%s)\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&enq.Name, "name", "", "your name")
	cmd.Flags().StringVar(&enq.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&enq.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&enq.Message, "message", "", "message")
	cmd.Flags().StringVar(&enq.FranchiseID, "franchise", "", "franchise of interest")
	return cmd
}
