// Command hlxc is the scriptable client CLI. Each subcommand dials,
// issues one exchange (or a full refresh), prints the result, and
// disconnects; it is a single-shot interrogation tool, not a REPL.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/openhlx/hlx/client"
	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/proto"
	"github.com/openhlx/hlx/session"
)

type globalFlags struct {
	addr    string
	timeout time.Duration
	debug   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var gf globalFlags

	cmd := &cobra.Command{
		Use:   "hlxc",
		Short: "HLX amplifier command-line client",
	}
	persistent := cmd.PersistentFlags()
	persistent.StringVarP(&gf.addr, "addr", "a", fmt.Sprintf("localhost:%d", session.DefaultPort),
		"amplifier address, as host, host:port or telnet://host[:port]")
	persistent.DurationVarP(&gf.timeout, "timeout", "t", 5*time.Second, "per-exchange timeout")
	persistent.BoolVarP(&gf.debug, "debug", "d", false, "enable debug-level logging")

	cmd.AddCommand(
		newRefreshCmd(&gf),
		newZoneCmd(&gf),
		newFavoriteCmd(&gf),
	)
	return cmd
}

// dial connects addr and returns a ready App whose Refresh/object-
// controller methods are usable; the caller must call the returned
// close func once done.
func dial(gf *globalFlags) (*client.App, func(), error) {
	log, err := newLogger(gf.debug)
	if err != nil {
		return nil, nil, err
	}

	manager := hlx.NewManager(nil, log.Named("manager"), nil)
	conn := session.New(session.Config{ConnectTimeout: gf.timeout}, manager)
	manager.SetConn(conn)

	if err := conn.Connect(gf.addr, gf.timeout); err != nil {
		log.Sync() //nolint:errcheck
		return nil, nil, fmt.Errorf("connect %s: %w", gf.addr, err)
	}

	app := client.NewApp(conn, manager)
	closeFn := func() {
		conn.Disconnect(nil)
		log.Sync() //nolint:errcheck
	}
	return app, closeFn, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func newRefreshCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "connect, refresh the full data model, and print it as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, closeFn, err := dial(gf)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := app.Refresh(gf.timeout); err != nil {
				return fmt.Errorf("refresh: %w", err)
			}
			out, err := yaml.Marshal(app.Store().Snapshot())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func parseIdentifier(s string) (proto.Identifier, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	return proto.Identifier(n), nil
}

func newZoneCmd(gf *globalFlags) *cobra.Command {
	zoneCmd := &cobra.Command{
		Use:   "zone",
		Short: "read or write zone properties",
	}

	zoneCmd.AddCommand(&cobra.Command{
		Use:   "volume <id> <level>",
		Short: "set a zone's volume level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIdentifier(args[0])
			if err != nil {
				return err
			}
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", args[1], err)
			}
			app, closeFn, err := dial(gf)
			if err != nil {
				return err
			}
			defer closeFn()
			return app.Zones.SetVolume(id, level, gf.timeout)
		},
	})

	zoneCmd.AddCommand(&cobra.Command{
		Use:   "mute <id> <on|off|toggle>",
		Short: "engage, release or toggle a zone's mute",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIdentifier(args[0])
			if err != nil {
				return err
			}
			var op proto.MuteOp
			switch args[1] {
			case "on":
				op = proto.MuteOn
			case "off":
				op = proto.MuteOff
			case "toggle":
				op = proto.MuteToggle
			default:
				return fmt.Errorf("invalid mute operation %q: want on, off or toggle", args[1])
			}
			app, closeFn, err := dial(gf)
			if err != nil {
				return err
			}
			defer closeFn()
			return app.Zones.SetMute(id, op, gf.timeout)
		},
	})

	zoneCmd.AddCommand(&cobra.Command{
		Use:   "source <id> <source-id>",
		Short: "select a zone's active source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIdentifier(args[0])
			if err != nil {
				return err
			}
			source, err := parseIdentifier(args[1])
			if err != nil {
				return err
			}
			app, closeFn, err := dial(gf)
			if err != nil {
				return err
			}
			defer closeFn()
			return app.Zones.SetSource(id, source, gf.timeout)
		},
	})

	return zoneCmd
}

func newFavoriteCmd(gf *globalFlags) *cobra.Command {
	favoriteCmd := &cobra.Command{
		Use:   "favorite",
		Short: "apply a favorite",
	}

	favoriteCmd.AddCommand(&cobra.Command{
		Use:   "apply <favorite-id> <zone-id>",
		Short: "apply a favorite to a zone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			favorite, err := parseIdentifier(args[0])
			if err != nil {
				return err
			}
			zone, err := parseIdentifier(args[1])
			if err != nil {
				return err
			}
			app, closeFn, err := dial(gf)
			if err != nil {
				return err
			}
			defer closeFn()
			return app.Favorites.Apply(favorite, zone, gf.timeout)
		},
	})

	return favoriteCmd
}
