package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/streakly/internal/cli"
	"github.com/julianstephens/streakly/internal/constants"
	apperrors "github.com/julianstephens/streakly/internal/errors"
	"github.com/julianstephens/streakly/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	HabitsFile string `name:"habits" help:"YAML file with habit definitions to load at startup." default:"${config_dir}/${habits_file}" env:"STREAKLY_HABITS"`
	ConfigDir  string `help:"Directory for logs." default:"${config_dir}" env:"STREAKLY_CONFIG_DIR"`
	Debug      bool   `help:"Enable debug logging (mirrored to stderr)." env:"STREAKLY_DEBUG"`
	LogLevel   string `help:"Log file level: debug, info, warn or error." env:"STREAKLY_LOG_LEVEL"`
	DisplayDir string `help:"Directory holding the display lockfile (default: the display's config dir)." env:"STREAKLY_DISPLAY_DIR"`
	IntentAddr string `help:"Address for the display intent server." default:"${intent_addr}" env:"STREAKLY_INTENT_ADDR"`
	Timezone   string `help:"IANA timezone for calendar days (default: Local)." default:"Local" env:"STREAKLY_TIMEZONE"`

	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habits  cli.HabitsCmd  `cmd:"" help:"List habits with today's progress."`
	Icons   cli.IconsCmd   `cmd:"" help:"Print the icon catalogue."`
	Run     cli.RunCmd     `cmd:"" help:"Run a timer for a time habit until interrupted."`
	Display cli.DisplayCmd `cmd:"" help:"Manage the always-on display connection."`
}

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with live timers for an always-on display"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_dir":  constants.DefaultConfigDir,
			"habits_file": constants.DefaultHabitsFile,
			"intent_addr": constants.DefaultIntentAddr,
		},
	)

	configDir, err := cli.ExpandPath(CLI.ConfigDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir, Level: CLI.LogLevel}); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Formatf("failed to initialize logger: %v", err))
		os.Exit(1)
	}

	appCtx, err := cli.NewContext(cli.Config{
		HabitsFile: CLI.HabitsFile,
		DisplayDir: CLI.DisplayDir,
		IntentAddr: CLI.IntentAddr,
		Timezone:   CLI.Timezone,
	})
	if err != nil {
		apperrors.Fatal(err)
	}
	defer appCtx.Close()

	if err := ctx.Run(appCtx); err != nil {
		appCtx.Close()
		apperrors.Fatal(err)
	}
}
