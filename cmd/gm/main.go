package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"gamemaster/internal/app"
	"gamemaster/internal/config"
	"gamemaster/internal/db"
	"gamemaster/internal/domain"
	"gamemaster/internal/engine"
	"gamemaster/internal/engine/ranking"
	"gamemaster/internal/engine/roster"
	"gamemaster/internal/logger"
	"gamemaster/internal/metrics"
	"gamemaster/internal/migrate"
	"gamemaster/internal/repo"
	"gamemaster/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "gm",
	Short: "Game master simulator",
	Long: `gm runs elimination-game sessions from the command line.
- Workspace: the .gamemaster directory holding the session database, plus an optional gamemaster.yml.
- Session: a roster of competitors and an ordered list of events, played one event at a time.
- Events: catalog entries (intelligence, force, agilité or chaos) that eliminate part of the field.
- Ranking: alive competitors first, then by total score, ties broken by number.
- Earnings: credited once a session completes, collectable exactly once.
- Event log: every mutation is recorded; view it with 'gm log tail'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("GAMEMASTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log encoding (console or json)")
	for _, name := range []string{"workspace", "json", "actor-id", "log-level", "log-format"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(playCmd())
	rootCmd.AddCommand(skipCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(rankingCmd())
	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(apikeyCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(serveCmd())
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show workspace status",
		Long:  "Shows the database location, applied schema migrations and how many sessions are stored or still in play.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				applied, err := migrate.Status(ctx, e.DB)
				if err != nil {
					return err
				}
				sessions, err := e.ListSessions(ctx, 0)
				if err != nil {
					return err
				}
				active := 0
				for _, s := range sessions {
					if !s.Completed {
						active++
					}
				}
				schema := 0
				if len(applied) > 0 {
					schema = applied[len(applied)-1].Version
				}
				out := map[string]any{
					"database":        db.Path(viper.GetString("workspace")),
					"schema_version":  schema,
					"sessions":        len(sessions),
					"active_sessions": active,
					"catalog_events":  len(e.Catalog.Events),
				}
				if viper.GetBool("json") {
					return printJSON(out)
				}
				fmt.Printf("Database: %s (schema %d)\n", out["database"], schema)
				fmt.Printf("Sessions: %d (%d in play)\n", len(sessions), active)
				fmt.Printf("Catalog: %d events\n", len(e.Catalog.Events))
				return nil
			})
		},
	}
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Manage gamemaster.yml",
		Long:  "The config sets the default roster size, payouts, default event lineup, an optional catalog file and webhooks. Without a gamemaster.yml the built-in defaults apply.",
	}
	cfg.AddCommand(configInitCmd())
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	return cfg
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default gamemaster.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show resolved config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.ResolveConfigAndCatalog(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSON(cfg)
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate config and catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := app.ResolveConfigAndCatalog(viper.GetString("workspace"))
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
}

func sessionCmd() *cobra.Command {
	s := &cobra.Command{Use: "session", Short: "Manage sessions"}
	s.AddCommand(sessionCreateCmd())
	s.AddCommand(sessionListCmd())
	s.AddCommand(sessionShowCmd())
	s.AddCommand(sessionDeleteCmd())
	return s
}

func sessionCreateCmd() *cobra.Command {
	var (
		count                    int
		seed                     int64
		eventIDs                 []string
		entrantsFile, celebsFile string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session",
		Long:  "Generate a roster and lay out the event lineup. --count is clamped to 20..1000; --events picks catalog ids in play order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.CreateSessionOptions{
				Count:    count,
				EventIDs: eventIDs,
				ActorID:  viper.GetString("actor-id"),
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}
			if entrantsFile != "" {
				if err := readJSONFile(entrantsFile, &opts.Entrants); err != nil {
					return fmt.Errorf("entrants: %w", err)
				}
			}
			if celebsFile != "" {
				var celebs []roster.Celebrity
				if err := readJSONFile(celebsFile, &celebs); err != nil {
					return fmt.Errorf("celebrities: %w", err)
				}
				opts.Celebrities = celebs
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.CreateSession(ctx, opts)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				s := res.Session
				fmt.Printf("Session %s (seed %d)\n", s.ID, s.Seed)
				fmt.Printf("Players: %d", len(s.Players))
				if res.Clamped {
					fmt.Print(" (count clamped)")
				}
				fmt.Println()
				fmt.Printf("Events: %s\n", strings.Join(eventNames(s.Events), " -> "))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "generated competitors (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "fixed seed for a reproducible session")
	cmd.Flags().StringSliceVar(&eventIDs, "events", nil, "catalog event ids in play order")
	cmd.Flags().StringVar(&entrantsFile, "entrants", "", "JSON file with manual entrants")
	cmd.Flags().StringVar(&celebsFile, "celebrities", "", "JSON file with celebrity entrants")
	return cmd
}

func sessionListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				items, err := e.ListSessions(ctx, limit)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := newTable(table.Row{"ID", "Players", "Alive", "Event", "Completed", "Earnings", "Created"})
				for _, s := range items {
					tw.AppendRow(table.Row{s.ID, s.Players, s.Alive, fmt.Sprintf("%d/%d", s.CurrentEventIndex, s.Events), s.Completed, s.Earnings, s.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "max sessions")
	return cmd
}

func sessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.GetSession(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(s)
				}
				printSessionStatus(s)
				tw := newTable(table.Row{"#", "Event", "Type", "Difficulty", "Status"})
				for i, ev := range s.Events {
					status := "pending"
					switch {
					case i < s.CurrentEventIndex:
						status = "done"
					case i == s.CurrentEventIndex && !s.Completed:
						status = "next"
					}
					tw.AppendRow(table.Row{i + 1, ev.Name, ev.Type, ev.Difficulty, status})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func sessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := e.DeleteSession(ctx, args[0], viper.GetString("actor-id")); err != nil {
					return err
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	}
}

func playCmd() *cobra.Command {
	var showSurvivors bool
	cmd := &cobra.Command{
		Use:   "play <session-id>",
		Short: "Resolve the current event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				step, err := e.StartEvent(ctx, args[0], viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(step)
				}
				printEventResult(step.Result, showSurvivors)
				printSessionStatus(step.Session)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showSurvivors, "survivors", false, "list survivors as well as eliminations")
	return cmd
}

func skipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip <session-id>",
		Short: "Skip the current event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.SkipEvent(ctx, args[0], viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(s)
				}
				printSessionStatus(s)
				return nil
			})
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <session-id>",
		Short: "Resolve every remaining event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, results, err := e.RunToEnd(ctx, args[0], viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"session": s, "results": results})
				}
				tw := newTable(table.Row{"Event", "Participants", "Survivors", "Eliminated"})
				for _, r := range results {
					tw.AppendRow(table.Row{r.EventName, r.TotalParticipants, len(r.Survivors), len(r.Eliminated)})
				}
				tw.Render()
				printSessionStatus(s)
				return nil
			})
		},
	}
}

func rankingCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "ranking <session-id>",
		Short: "Show the session ranking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				entries, err := e.Ranking(ctx, args[0])
				if err != nil {
					return err
				}
				if top > 0 && len(entries) > top {
					entries = entries[:top]
				}
				if viper.GetBool("json") {
					return printJSON(entries)
				}
				tw := newTable(table.Row{"Pos", "No.", "Name", "Role", "Alive", "Score", "Survived", "Kills", "Betrayals"})
				for _, r := range entries {
					tw.AppendRow(table.Row{r.Position, fmt.Sprintf("%03d", r.Number), r.Name, r.Role, r.Alive,
						r.GameStats.TotalScore, r.GameStats.SurvivedEvents, r.GameStats.Kills, r.GameStats.Betrayals})
				}
				tw.Render()
				if w := ranking.Winner(entries); w != nil {
					fmt.Printf("Winner: %03d %s\n", w.Number, w.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "only show the first n entries")
	return cmd
}

func collectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect <session-id>",
		Short: "Collect the earnings of a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.CollectEarnings(ctx, args[0], viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"session_id": s.ID, "earnings": s.Earnings, "collected": true})
				}
				fmt.Printf("Collected %d from session %s\n", s.Earnings, s.ID)
				return nil
			})
		},
	}
}

func catalogCmd() *cobra.Command {
	c := &cobra.Command{Use: "catalog", Short: "Inspect the event catalog"}
	c.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if viper.GetBool("json") {
					return printJSON(e.Catalog.Events)
				}
				tw := newTable(table.Row{"ID", "Name", "Type", "Difficulty", "Elimination", "Duration (s)"})
				for _, ev := range e.Catalog.Events {
					tw.AppendRow(table.Row{ev.ID, ev.Name, ev.Type, ev.Difficulty,
						fmt.Sprintf("%.0f-%.0f%%", ev.MinEliminationRate*100, ev.MaxEliminationRate*100),
						fmt.Sprintf("%d-%d", ev.MinDuration, ev.MaxDuration)})
				}
				tw.Render()
				return nil
			})
		},
	})
	return c
}

func logCmd() *cobra.Command {
	l := &cobra.Command{Use: "log", Short: "Inspect the event log"}
	l.AddCommand(logTailCmd())
	return l
}

func logTailCmd() *cobra.Command {
	var n int
	var sessionID, evtType string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				evts, err := e.Repo.LatestEvents(ctx, n, 0, repo.EventFilters{SessionID: sessionID, Type: evtType})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(evts)
				}
				tw := newTable(table.Row{"ID", "Time", "Type", "Session", "Actor", "Payload"})
				for _, evt := range evts {
					tw.AppendRow(table.Row{evt.ID, evt.TS, evt.Type, evt.SessionID, evt.ActorID, evt.Payload})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&sessionID, "session", "", "session id filter")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter")
	return cmd
}

func apikeyCmd() *cobra.Command {
	k := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
		Long:  "API keys authenticate HTTP clients through the X-Api-Key header. The secret is printed once at creation.",
	}
	k.AddCommand(apikeyCreateCmd())
	k.AddCommand(apikeyListCmd())
	k.AddCommand(apikeyDeleteCmd())
	return k
}

func apikeyCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key for the current actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				key, secret, err := e.CreateAPIKey(ctx, viper.GetString("actor-id"), name)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"id": key.ID, "actor_id": key.ActorID, "name": key.Name, "key": secret})
				}
				fmt.Printf("API key %s for %s\n%s\n", key.ID, key.ActorID, secret)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "key label")
	return cmd
}

func apikeyListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				actorID := viper.GetString("actor-id")
				if all {
					actorID = ""
				}
				keys, err := e.Repo.ListAPIKeys(ctx, actorID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(keys)
				}
				tw := newTable(table.Row{"ID", "Actor", "Name", "Created"})
				for _, k := range keys {
					tw.AppendRow(table.Row{k.ID, k.ActorID, k.Name, k.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list keys of every actor")
	return cmd
}

func apikeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key-id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if err := e.RevokeAPIKey(ctx, args[0], viper.GetString("actor-id")); err != nil {
					return err
				}
				fmt.Println("revoked", args[0])
				return nil
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the current actor",
		Long:  "Signs an HS256 token with GAMEMASTER_JWT_SECRET; the server must run with the same secret.",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := server.SignToken(jwtSecret(), viper.GetString("actor-id"), ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime (0 for no expiry)")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			authCfg := server.AuthConfig{JWTSecret: jwtSecret()}
			if authCfg.JWTSecret == "" {
				return fmt.Errorf("GAMEMASTER_JWT_SECRET is required for bearer auth")
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return openEngine(cmd.Context(), log, metrics.New(), func(ctx context.Context, e engine.Engine) error {
				handler, err := server.New(server.Config{Engine: e, BasePath: basePath, Auth: authCfg, Logger: log})
				if err != nil {
					return err
				}
				server.StartWebhooks(ctx, e, log)
				srv := &http.Server{Addr: addr, Handler: handler}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
				log.Info("serving game master API", zap.String("addr", addr), zap.String("base_path", basePath))
				fmt.Printf("Serving Game Master API on http://%s%s (OpenAPI at %s/openapi.json, metrics at /metrics)\n", addr, basePath, basePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

// --- helpers ---

func jwtSecret() string {
	return strings.TrimSpace(viper.GetString("jwt-secret"))
}

func newLogger() (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:    viper.GetString("log-level"),
		Encoding: viper.GetString("log-format"),
	})
}

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()
	return openEngine(ctx, log, nil, fn)
}

func openEngine(ctx context.Context, log *zap.Logger, m *metrics.Metrics, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	cfg, cat, err := app.ResolveConfigAndCatalog(workspace)
	if err != nil {
		return err
	}
	e := engine.New(conn, cfg, cat, log, m)
	return fn(ctx, e)
}

func newTable(header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(header)
	tw.SetStyle(table.StyleLight)
	return tw
}

func printSessionStatus(s domain.GameSession) {
	fmt.Printf("Session %s: %d/%d alive, event %d/%d, phase %s\n",
		s.ID, len(s.AlivePlayers()), len(s.Players), s.CurrentEventIndex, len(s.Events), s.Phase)
	if !s.Completed {
		return
	}
	if s.Winner != nil {
		fmt.Printf("Winner: %s %s\n", s.Winner.DisplayNumber(), s.Winner.Name)
	} else {
		fmt.Println("No survivors")
	}
	fmt.Printf("Earnings: %d (collectable: %t)\n", s.Earnings, s.CanCollect)
}

func printEventResult(r domain.EventResult, showSurvivors bool) {
	fmt.Printf("%s: %d participants, %d survivors, %d eliminated\n",
		r.EventName, r.TotalParticipants, len(r.Survivors), len(r.Eliminated))
	if len(r.Eliminated) > 0 {
		tw := newTable(table.Row{"No.", "Name", "Time", "Cause"})
		for _, el := range r.Eliminated {
			tw.AppendRow(table.Row{fmt.Sprintf("%03d", el.Number), el.Name, el.EliminationTime, el.Cause})
		}
		tw.Render()
	}
	if showSurvivors && len(r.Survivors) > 0 {
		tw := newTable(table.Row{"No.", "Name", "Time left", "Kills", "Betrayed", "Score"})
		for _, sv := range r.Survivors {
			tw.AppendRow(table.Row{fmt.Sprintf("%03d", sv.Number), sv.Name, sv.TimeRemaining, sv.EventKills, sv.Betrayed, sv.Score})
		}
		tw.Render()
	}
}

func eventNames(evs []domain.EventDefinition) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Name)
	}
	return out
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
