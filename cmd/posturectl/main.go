package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/terraincognita07/postura/internal/cli"
	"github.com/terraincognita07/postura/internal/client"
	"github.com/terraincognita07/postura/internal/config"
	"github.com/terraincognita07/postura/internal/i18n"
	"github.com/terraincognita07/postura/internal/localstore"
	"github.com/terraincognita07/postura/internal/logging"
	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/posture"
)

const usage = `usage: posturectl <command> [flags]

commands:
  track     [-duration 25m] [-interval 2s]
  history
  stats     [-week]
  profile   show | set [-name] [-age] [-gender] [-height] [-weight] [-goal]
  settings  show | set [-reminder-interval] [-sensitivity] [-reminders] [-camera]
  delete    <session-id>
  wipe
  sync      [-server URL] [-email] [-password]
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.LoadClient(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.ClientConfig, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	logger, err := logging.New(level, logging.FormatConsole)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := os.MkdirAll(cfg.HomeDir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", cfg.HomeDir, err)
	}
	store, err := localstore.Open(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer store.Close()

	manager, err := i18n.NewDefaultManager("en")
	if err != nil {
		return err
	}
	console := cli.NewConsole(store, manager, cfg.Language, out, logger)

	command, rest := args[0], args[1:]
	switch command {
	case "track":
		return runTrack(ctx, console, rest)
	case "history":
		return console.History()
	case "stats":
		flags := newFlagSet("stats")
		week := flags.Bool("week", false, "only the last seven days")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		_, err := console.Stats(*week)
		return err
	case "profile":
		return runProfile(console, rest)
	case "settings":
		return runSettings(console, rest)
	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("%w: delete needs a session id", errUsage)
		}
		return console.Delete(rest[0])
	case "wipe":
		return console.Wipe()
	case "sync":
		return runSync(console, cfg, rest, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	return flags
}

func runTrack(ctx context.Context, console *cli.Console, args []string) error {
	flags := newFlagSet("track")
	duration := flags.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	interval := flags.Duration("interval", posture.DefaultTickInterval, "sampling interval")
	seed := flags.Uint64("seed", 0, "mock detector seed")
	if err := flags.Parse(args); err != nil {
		return err
	}

	_, err := console.Track(ctx, cli.TrackOptions{Duration: *duration, Interval: *interval, Seed: *seed})
	return err
}

func runProfile(console *cli.Console, args []string) error {
	if len(args) == 0 || args[0] == "show" {
		return console.ShowProfile()
	}
	if args[0] != "set" {
		return fmt.Errorf("%w: profile show|set", errUsage)
	}

	flags := newFlagSet("profile set")
	name := flags.String("name", "", "display name")
	age := flags.Int("age", 0, "age in years")
	gender := flags.String("gender", "", "male, female or other")
	height := flags.Float64("height", 0, "height in cm")
	weight := flags.Float64("weight", 0, "weight in kg")
	goal := flags.String("goal", "", "strength, flexibility, posture_correction or endurance")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	var update models.ProfileUpdate
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			update.Name = name
		case "age":
			update.Age = age
		case "gender":
			update.Gender = gender
		case "height":
			update.Height = height
		case "weight":
			update.Weight = weight
		case "goal":
			update.FitnessGoal = goal
		}
	})
	_, err := console.SetProfile(update)
	return err
}

func runSettings(console *cli.Console, args []string) error {
	if len(args) == 0 || args[0] == "show" {
		return console.ShowSettings()
	}
	if args[0] != "set" {
		return fmt.Errorf("%w: settings show|set", errUsage)
	}

	flags := newFlagSet("settings set")
	interval := flags.Int("reminder-interval", models.DefaultReminderInterval, "minutes between reminders")
	sensitivity := flags.Float64("sensitivity", models.DefaultSensitivity, "detector sensitivity 0.1-1.0")
	reminders := flags.Bool("reminders", true, "enable reminders")
	camera := flags.Bool("camera", true, "enable camera")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	var update models.SettingsUpdate
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "reminder-interval":
			update.ReminderInterval = interval
		case "sensitivity":
			update.Sensitivity = sensitivity
		case "reminders":
			update.EnableReminders = reminders
		case "camera":
			update.EnableCamera = camera
		}
	})
	if update.IsEmpty() {
		return fmt.Errorf("%w: settings set needs at least one flag", errUsage)
	}
	_, err := console.SetSettings(update)
	return err
}

func runSync(console *cli.Console, cfg *config.ClientConfig, args []string, out io.Writer) error {
	flags := newFlagSet("sync")
	server := flags.String("server", cfg.ServerURL, "server base URL")
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password (prompted when empty)")
	timeout := flags.Duration("timeout", client.DefaultTimeout, "request timeout")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return fmt.Errorf("%w: sync needs -email", errUsage)
	}

	secret := *password
	if secret == "" {
		prompted, err := cli.PromptPassword("Password: ", os.Stdin, out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		secret = prompted
	}

	remote := client.New(*server).WithTimeout(*timeout)
	if _, err := remote.Login(*email, secret); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	_, err := console.Sync(remote)
	return err
}
