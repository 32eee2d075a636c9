// Package cmd implements the time4kids dashboard CLI: the role-scoped
// admin/franchise surface over the platform API.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DMX-Projects/time4kids-sub001/internal/client/api"
	"github.com/DMX-Projects/time4kids-sub001/internal/client/config"
	"github.com/DMX-Projects/time4kids-sub001/internal/client/guard"
	"github.com/DMX-Projects/time4kids-sub001/internal/client/session"
	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

// app carries the dependencies shared by every subcommand. They are
// built once in the root's PersistentPreRun, after flags are parsed.
type app struct {
	serverURL   string
	mediaURL    string
	sessionFile string

	cfg     config.Config
	logger  *zap.Logger
	api     *api.Client
	manager *session.Manager
}

func NewRootCmd(version, buildDate string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "time4kids",
		Short:         "Time4Kids platform CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "API base URL (default TIME4KIDS_API_BASE_URL)")
	root.PersistentFlags().StringVar(&a.mediaURL, "media-url", "", "media base URL (default TIME4KIDS_MEDIA_BASE_URL)")
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", "", "session file path (default TIME4KIDS_SESSION_FILE)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) { a.init() }

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newAuthCmd(a))
	root.AddCommand(newResourceCmd[models.Career](a, "careers", "Manage career postings", "/careers/", models.RoleAdmin))
	root.AddCommand(newResourceCmd[models.Event](a, "events", "Manage events", "/events/", models.RoleAdmin, models.RoleFranchise))
	root.AddCommand(newResourceCmd[models.Grade](a, "grades", "Manage grades", "/grades/", models.RoleAdmin, models.RoleFranchise))
	root.AddCommand(newResourceCmd[models.Parent](a, "parents", "Manage parent records", "/parents/", models.RoleAdmin, models.RoleFranchise))
	root.AddCommand(newResourceCmd[models.Franchise](a, "franchises", "Manage franchises", "/franchises/", models.RoleAdmin))
	root.AddCommand(newResourceCmd[models.Update](a, "updates", "Manage updates", "/updates/", models.RoleAdmin, models.RoleFranchise))
	root.AddCommand(newResourceCmd[models.Enquiry](a, "enquiries", "Manage enquiries", "/enquiries/", models.RoleAdmin, models.RoleFranchise))
	root.AddCommand(newMediaCmd(a))
	root.AddCommand(newPublicCmd(a))
	root.AddCommand(newEnquireCmd(a))
	return root
}

func (a *app) init() {
	a.cfg = config.Load()
	if a.serverURL == "" {
		a.serverURL = a.cfg.APIBaseURL
	}
	if a.mediaURL == "" {
		a.mediaURL = a.cfg.MediaBaseURL
	}
	if a.sessionFile == "" {
		a.sessionFile = a.cfg.SessionFile
	}
	a.logger = buildLogger(a.cfg.LogLevel)
	a.api = api.New(a.serverURL, a.mediaURL)
	a.manager = session.NewManager(a.api, session.NewStore(a.sessionFile), a.logger)
}

// requireRole hydrates the session and runs the route guard for the
// command's allowed roles.
func (a *app) requireRole(ctx context.Context, roles ...models.Role) error {
	a.manager.Hydrate(ctx)
	var u *models.User
	if user, ok := a.manager.CurrentUser(); ok {
		u = &user
	}
	res := guard.New(roles...).Check(u, a.manager.Loading())
	switch res.Decision {
	case guard.Allow:
		return nil
	case guard.Redirect:
		if res.Target == guard.LoginPath {
			return errors.New("not logged in, run: time4kids auth login")
		}
		return fmt.Errorf("not available for your role (your dashboard is %s)", res.Target)
	default:
		return errors.New("session is not ready")
	}
}

func buildLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.WarnLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
