// teamctl is the operator CLI: it imports rosters, runs and cancels
// distributions, lists teams and sends notifications against the same
// database the server uses.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/OrionApplePie/ProjectsAutomation/internal/app"
	"github.com/OrionApplePie/ProjectsAutomation/internal/config"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

const usage = `Usage: teamctl [--db PATH] [--json] [--as NAME] COMMAND [ARGS]

Commands:
  import FILE             import participants, slots, constraints and projects from YAML
  distribute [--notify]   form and commit teams from free slots
  cancel                  undo the latest distribution run
  teams                   list formed teams
  unallocated             list students without a team and free manager times
  notify teams|unallocated
                          message team members or unplaced students
  activity [--limit N] [--run ID]
                          show recent activity
  apikey create NAME      issue an API key for the HTTP server

Configuration is read from TEAMS_* environment variables, .env and
TEAMS_CONFIG_PATH as for the server.
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

type cli struct {
	app    *app.App
	out    io.Writer
	asJSON bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var dbPath, operator string
	var asJSON bool

	flagSet := pflag.NewFlagSet("teamctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&dbPath, "db", "", "database path (overrides TEAMS_DB_PATH)")
	flagSet.BoolVar(&asJSON, "json", false, "print results as JSON")
	flagSet.StringVar(&operator, "as", "cli", "operator name recorded in the activity log")
	flagSet.Usage = func() { fmt.Fprint(stderr, usage) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	rest := flagSet.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if dbPath != "" {
		cfg.DB.Path = dbPath
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cliLogLevel(cfg.Log.Level)}))

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx = activity.ContextWithOperator(ctx, operator)
	c := &cli{app: a, out: stdout, asJSON: asJSON}
	command, cmdArgs := rest[0], rest[1:]
	switch command {
	case "import":
		return c.importRoster(ctx, cmdArgs)
	case "distribute":
		return c.distribute(ctx, cmdArgs)
	case "cancel":
		return c.cancel(ctx)
	case "teams":
		return c.teams(ctx)
	case "unallocated":
		return c.unallocated(ctx)
	case "notify":
		return c.notify(ctx, cmdArgs)
	case "activity":
		return c.activity(ctx, cmdArgs)
	case "apikey":
		return c.apiKey(ctx, cmdArgs)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", command, usage)
		return errUsage
	}
}

// cliLogLevel keeps routine info logs off the terminal unless asked for.
func cliLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func (c *cli) print(text string, v any) error {
	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(c.out, text)
	return err
}

func (c *cli) importRoster(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import needs exactly one FILE argument")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := c.app.Importer.Import(ctx, f)
	if err != nil {
		return err
	}
	return c.print(res.Text(), res)
}

func (c *cli) distribute(ctx context.Context, args []string) error {
	var withNotify bool
	flagSet := pflag.NewFlagSet("distribute", pflag.ContinueOnError)
	flagSet.BoolVar(&withNotify, "notify", false, "message everyone after a successful commit")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	summary, err := c.app.Distribution.Run(ctx)
	if err != nil {
		return err
	}
	if err := c.print(summary.Text(), summary); err != nil {
		return err
	}
	if !withNotify || summary.RunID == "" {
		return nil
	}

	teams, unallocated, err := c.app.NotifyAll(ctx)
	if err != nil {
		return err
	}
	return c.print(fmt.Sprintf("Teams: %s\nUnallocated: %s", teams.Text(), unallocated.Text()),
		map[string]any{"teams": teams, "unallocated": unallocated})
}

func (c *cli) cancel(ctx context.Context) error {
	summary, err := c.app.Distribution.CancelLast(ctx)
	if err != nil {
		return err
	}
	return c.print(summary.Text(), summary)
}

func (c *cli) teams(ctx context.Context) error {
	teams, err := c.app.Distribution.ListFormedTeams(ctx)
	if err != nil {
		return err
	}
	if c.asJSON {
		return c.print("", teams)
	}
	if len(teams) == 0 {
		return c.print("No teams formed.", nil)
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEAM\tTIME\tPROJECT\tDATES\tMANAGER\tSTUDENTS")
	for _, ft := range teams {
		project := "-"
		if ft.Project != nil {
			project = ft.Project.Name
		}
		students := make([]string, 0, len(ft.Students))
		for _, s := range ft.Students {
			students = append(students, "@"+s.TelegramUsername)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s..%s\t@%s\t%s\n", ft.Team.ID, ft.Time, project,
			ft.Team.DateStart.Format("2006-01-02"), ft.Team.DateEnd.Format("2006-01-02"),
			ft.Manager.TelegramUsername, strings.Join(students, ", "))
	}
	return w.Flush()
}

func (c *cli) unallocated(ctx context.Context) error {
	students, err := c.app.Distribution.ListUnallocatedStudents(ctx)
	if err != nil {
		return err
	}
	free, err := c.app.Distribution.ListFreeManagerTimes(ctx)
	if err != nil {
		return err
	}
	if c.asJSON {
		return c.print("", map[string]any{"students": students, "free_manager_times": free})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d students unallocated.\n", len(students))
	for _, s := range students {
		fmt.Fprintf(&b, "  %s\n", s)
	}
	times := make([]string, 0, len(free))
	for _, t := range free {
		times = append(times, t.String())
	}
	if len(times) == 0 {
		times = append(times, "none")
	}
	fmt.Fprintf(&b, "Managers free at: %s", strings.Join(times, ", "))
	return c.print(b.String(), nil)
}

func (c *cli) notify(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("notify needs teams or unallocated")
	}
	switch args[0] {
	case "teams":
		teams, err := c.app.Distribution.ListFormedTeams(ctx)
		if err != nil {
			return err
		}
		report := c.app.Notifier.NotifyTeams(ctx, teams)
		return c.print(report.Text(), report)
	case "unallocated":
		students, err := c.app.Distribution.ListUnallocatedStudents(ctx)
		if err != nil {
			return err
		}
		free, err := c.app.Distribution.ListFreeManagerTimes(ctx)
		if err != nil {
			return err
		}
		report := c.app.Notifier.NotifyUnallocated(ctx, students, free)
		return c.print(report.Text(), report)
	default:
		return fmt.Errorf("notify needs teams or unallocated, got %q", args[0])
	}
}

func (c *cli) activity(ctx context.Context, args []string) error {
	var opts activity.ListActivityOptions
	var runID string
	flagSet := pflag.NewFlagSet("activity", pflag.ContinueOnError)
	flagSet.IntVar(&opts.Limit, "limit", 20, "maximum number of entries")
	flagSet.StringVar(&runID, "run", "", "only entries for this run")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if runID != "" {
		opts.RunID = &runID
	}

	entries, err := c.app.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return err
	}
	if c.asJSON {
		return c.print("", entries)
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %-10s %-24s %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Operator, e.ActivityType, e.Summary)
	}
	return c.print(strings.TrimRight(b.String(), "\n"), nil)
}

func (c *cli) apiKey(ctx context.Context, args []string) error {
	if len(args) != 2 || args[0] != "create" {
		return fmt.Errorf("usage: apikey create NAME")
	}
	token := uuid.NewString()
	if err := c.app.APIKeys.Create(ctx, token, args[1]); err != nil {
		return err
	}
	return c.print(token, map[string]string{"name": args[1], "token": token})
}
