package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"agendacal/internal/agenda"
	"agendacal/internal/caldav"
	"agendacal/internal/dates"
	"agendacal/internal/export"
	"agendacal/internal/google"
	"agendacal/internal/locale"
	"agendacal/internal/models"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "agendacal",
		Usage: "Build a day-by-day agenda from Google and CalDAV calendars.",
		Commands: []*cli.Command{
			authCommand(),
			agendaCommand(),
			exportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account to get an API token.",
		Action: func(c *cli.Context) error {
			logger := setupLogger("info")
			logger.Info("Starting Google authentication flow.")

			config, err := google.GetOAuthConfigForAuthFlow(os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"))
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(config, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			fmt.Print("Enter a name for this account (e.g., 'personal', 'work'): ")
			accountName, _ := reader.ReadString('\n')
			accountName = strings.TrimSpace(accountName)
			tokenFile := "token-" + accountName + ".json"

			if err := google.SaveToken(tokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", tokenFile)
			return nil
		},
	}
}

func agendaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "days", Value: 7, Usage: "Number of days to cover."},
		&cli.StringFlag{Name: "from", Usage: "Where the range starts: a day offset ('3', '-3'), a date ('2024-01-15'), '=<epoch seconds>', or a weekday ('fri', '-fri'). Defaults to today."},
		&cli.StringFlag{Name: "calendars", Usage: "Comma-separated Google calendar IDs. Defaults to GOOGLE_CALENDAR_IDS."},
		&cli.BoolFlag{Name: "caldav", Usage: "Also include the CalDAV calendar configured via CALDAV_* env vars."},
	}
}

func agendaCommand() *cli.Command {
	return &cli.Command{
		Name:  "agenda",
		Usage: "Fetch the agenda and print it as a plain-text digest.",
		Flags: agendaFlags(),
		Action: func(c *cli.Context) error {
			logger, loc := setupLoggerFromEnv(), locale.Load()
			result, err := fetchAgenda(c, logger, loc)
			if err != nil {
				return err
			}
			printDigest(loc, result)
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	flags := append(agendaFlags(),
		&cli.StringFlag{Name: "out", Usage: "Write the iCalendar feed to this file instead of stdout."})
	return &cli.Command{
		Name:  "export",
		Usage: "Fetch the agenda and write it as an iCalendar feed.",
		Flags: flags,
		Action: func(c *cli.Context) error {
			logger, loc := setupLoggerFromEnv(), locale.Load()
			result, err := fetchAgenda(c, logger, loc)
			if err != nil {
				return err
			}

			out := os.Stdout
			if path := c.String("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return export.Write(out, result)
		},
	}
}

// fetchAgenda builds the calendar sources from flags and environment and runs
// the aggregation.
func fetchAgenda(c *cli.Context, logger *slog.Logger, loc *locale.Locale) (*models.BucketedResult, error) {
	calendarIDs := c.String("calendars")
	if calendarIDs == "" {
		calendarIDs = os.Getenv("GOOGLE_CALENDAR_IDS")
	}
	if calendarIDs == "" && !c.Bool("caldav") {
		return nil, fmt.Errorf("no calendars configured: set GOOGLE_CALENDAR_IDS or pass --calendars or --caldav")
	}

	var refs []agenda.CalendarRef

	if calendarIDs != "" {
		accounts, err := google.GetTokenAccounts()
		if err != nil {
			return nil, fmt.Errorf("could not find any google accounts, did you run auth command? %w", err)
		}
		if len(accounts) == 0 {
			return nil, fmt.Errorf("no google accounts found. Run the 'auth' command first")
		}

		for _, acc := range accounts {
			client, err := google.NewClient(c.Context, logger, os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"), acc)
			if err != nil {
				return nil, fmt.Errorf("failed to create google client for account %s: %w", acc, err)
			}
			for _, calID := range strings.Split(calendarIDs, ",") {
				refs = append(refs, agenda.CalendarRef{Source: client, CalendarID: strings.TrimSpace(calID)})
			}
		}
		logger.Info("Initialized Google clients for all accounts.", "count", len(accounts))
	}

	if c.Bool("caldav") {
		name := os.Getenv("CALDAV_CALENDAR_NAME")
		client, err := caldav.NewClient(logger, os.Getenv("CALDAV_ENDPOINT"), os.Getenv("CALDAV_USERNAME"), os.Getenv("CALDAV_PASSWORD"), name)
		if err != nil {
			return nil, fmt.Errorf("failed to create caldav client: %w", err)
		}
		refs = append(refs, agenda.CalendarRef{Source: client, CalendarID: name})
	}

	from := dates.ParseFromSpec(c.String("from"), loc.Weekdays)
	planner := agenda.NewPlanner(logger, loc)
	return planner.Agenda(c.Context, refs, c.Int("days"), from)
}

// printDigest writes the bucketed agenda as a plain-text digest to stdout.
func printDigest(loc *locale.Locale, result *models.BucketedResult) {
	if result.EventCount() == 0 {
		fmt.Println("No events.")
		return
	}

	fmt.Printf("Agenda %s%s%s\n", result.Start, loc.To, result.End)
	for _, date := range result.SortedDates() {
		bucket := result.Days[date]
		fmt.Printf("\n%s\n", bucket.LongName)
		for _, ev := range bucket.Events {
			line := "  " + ev.TimeString + "  " + ev.Summary
			if ev.Location != "" {
				line += " (" + ev.Location + ")"
			}
			fmt.Println(line)
		}
	}
}

func setupLoggerFromEnv() *slog.Logger {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	return setupLogger(level)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
