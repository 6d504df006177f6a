// Package cmd implements the meetctl CLI on top of the client core.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fgloris/smart-meeting-go/internal/config"
	"github.com/fgloris/smart-meeting-go/internal/gateway"
	"github.com/fgloris/smart-meeting-go/internal/live"
	"github.com/fgloris/smart-meeting-go/internal/meeting"
	"github.com/fgloris/smart-meeting-go/internal/messaging"
	"github.com/fgloris/smart-meeting-go/internal/observability/metrics"
	"github.com/fgloris/smart-meeting-go/internal/session"
	"github.com/fgloris/smart-meeting-go/internal/social"
)

var rootCmd = &cobra.Command{
	Use:           "meetctl",
	Short:         "Client for the smart-meeting platform: auth, friends, messages, live rooms",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(loginCmd, verifyCmd, registerCmd, logoutCmd)
	rootCmd.AddCommand(friendsCmd)
	rootCmd.AddCommand(msgCmd)
	rootCmd.AddCommand(roomCmd)
	rootCmd.AddCommand(meetingCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}

// app wires config, logger, gateway and session for one invocation.
// The identity, when present, comes from the state file written by a
// previous login.
type app struct {
	cfg  config.Config
	log  *zap.Logger
	gw   *gateway.Client
	sess *session.Store
}

func newApp() (*app, error) {
	cfg := config.Load()
	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	metrics.MustRegister()

	gw := gateway.New(cfg.APIBaseURL, cfg.APITimeout, log)
	sess := session.New(gw, log)
	if id, err := loadState(cfg.StatePath); err == nil {
		if err := sess.Restore(*id); err != nil {
			log.Warn("state file holds an unusable identity", zap.Error(err))
		}
	}
	return &app{cfg: cfg, log: log, gw: gw, sess: sess}, nil
}

// identity returns the restored identity or an actionable error.
func (a *app) identity() (session.Identity, error) {
	id, ok := a.sess.Identity()
	if !ok {
		return session.Identity{}, fmt.Errorf("not logged in; run `meetctl login` first")
	}
	return id, nil
}

func (a *app) social(id session.Identity) *social.Manager {
	return social.New(a.gw, id.UID, a.log)
}

func (a *app) messaging(id session.Identity) *messaging.Manager {
	return messaging.New(a.gw, id.UID, a.log)
}

func (a *app) meetings(id session.Identity) *meeting.Manager {
	return meeting.New(a.gw, id.UID, a.log)
}

func (a *app) live() *live.Coordinator {
	lc := gateway.NewLive(a.cfg.LiveBaseURL, a.cfg.LiveBearerToken, a.cfg.APITimeout, a.log)
	return live.New(lc, a.cfg.LiveMediaHost, a.log)
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
