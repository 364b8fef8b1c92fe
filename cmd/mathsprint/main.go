// Package main provides the CLI entrypoint for mathsprint.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/mathsprint/internal/achieve"
	"github.com/verte-zerg/mathsprint/internal/config"
	"github.com/verte-zerg/mathsprint/internal/daily"
	"github.com/verte-zerg/mathsprint/internal/model"
	"github.com/verte-zerg/mathsprint/internal/session"
	"github.com/verte-zerg/mathsprint/internal/shop"
	"github.com/verte-zerg/mathsprint/internal/sound"
	"github.com/verte-zerg/mathsprint/internal/stats"
	"github.com/verte-zerg/mathsprint/internal/statsui"
	"github.com/verte-zerg/mathsprint/internal/store"
	"github.com/verte-zerg/mathsprint/internal/tui"
)

const (
	defaultMode        = "sprint"
	defaultCurveWindow = 10
)

var (
	playMode        string
	playAddition    bool
	playSubtraction bool
	playMult        bool
	playDivision    bool
	playNoCountdown bool
	playSound       bool
	playDebug       bool

	statsMode string
	statsLast int
	statsText bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mathsprint",
		Short:         "TUI arcade math quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "game mode: sprint, endless, survival, daily-challenge")
	rootCmd.Flags().BoolVar(&playAddition, "addition", true, "enable addition problems")
	rootCmd.Flags().BoolVar(&playSubtraction, "subtraction", false, "enable subtraction problems")
	rootCmd.Flags().BoolVar(&playMult, "multiplication", false, "enable multiplication problems")
	rootCmd.Flags().BoolVar(&playDivision, "division", false, "enable division problems")
	rootCmd.Flags().BoolVar(&playNoCountdown, "no-countdown", false, "skip the pre-round countdown")
	rootCmd.Flags().BoolVar(&playSound, "sound", true, "terminal bell on game events")
	rootCmd.Flags().BoolVar(&playDebug, "debug", false, "verbose logging to the state directory")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newShopCmd())
	rootCmd.AddCommand(newDailyCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Game.Mode)
	applyBoolConfig(cmd, "addition", &playAddition, fileCfg.Game.Addition)
	applyBoolConfig(cmd, "subtraction", &playSubtraction, fileCfg.Game.Subtraction)
	applyBoolConfig(cmd, "multiplication", &playMult, fileCfg.Game.Multiplication)
	applyBoolConfig(cmd, "division", &playDivision, fileCfg.Game.Division)
	applyBoolConfig(cmd, "no-countdown", &playNoCountdown, fileCfg.Game.DisableCountdown)
	applyBoolConfig(cmd, "sound", &playSound, fileCfg.Game.Sound)

	mode := model.Mode(playMode)
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q (sprint, endless, survival, daily-challenge)", playMode)
	}
	settings := model.Settings{
		Addition:         playAddition,
		Subtraction:      playSubtraction,
		Multiplication:   playMult,
		Division:         playDivision,
		DisableCountdown: playNoCountdown,
		Sound:            playSound,
	}
	if len(settings.EnabledOps()) == 0 {
		return fmt.Errorf("at least one operation must be enabled")
	}

	logger, closeLog, err := newLogger(playDebug)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close db")
		}
	}()

	tracker := daily.NewTracker(st, nil)
	if err := tracker.Cleanup(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("daily cleanup")
	}

	var sounds sound.Player = sound.Nop{}
	if settings.Sound {
		sounds = sound.Bell{W: os.Stdout}
	}
	sounds = sound.Logged{Next: sounds, Log: logger}

	adapter := &storeAdapter{
		st:      st,
		ledger:  achieve.NewLedger(st, logger),
		tracker: tracker,
		log:     logger,
	}

	ui := tui.NewModel(mode, sounds, adapter)
	sess := session.New(session.Config{Settings: settings}, session.Deps{
		Presenter:  ui,
		Sounds:     sounds,
		Ledger:     adapter,
		Wallet:     adapter,
		HighScores: adapter,
		Recorder:   adapter,
		Inventory:  adapter,
		Daily:      adapter,
		Log:        logger,
	})
	ui.SetSession(sess)

	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if sess.State() == session.StateInvalidated {
		return fmt.Errorf("session invalidated: %s", sess.InvalidReason())
	}
	return nil
}

// storeAdapter bridges the session's narrow collaborator interfaces to
// the store, achievement ledger, and daily tracker. The session runs
// inside the TUI event loop, so failures are logged, never surfaced.
type storeAdapter struct {
	st      *store.Store
	ledger  *achieve.Ledger
	tracker *daily.Tracker
	log     zerolog.Logger
}

func (a *storeAdapter) Unlock(id string) {
	if _, err := a.ledger.Unlock(context.Background(), id); err != nil {
		a.log.Warn().Err(err).Str("achievement", id).Msg("unlock failed")
	}
}

func (a *storeAdapter) AddSparks(n int) {
	if _, err := a.st.AddSparks(context.Background(), n); err != nil {
		a.log.Warn().Err(err).Msg("failed to credit sparks")
	}
}

func (a *storeAdapter) HighScore(mode model.Mode) int {
	score, err := a.st.HighScore(context.Background(), mode)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to read high score")
		return 0
	}
	return score
}

func (a *storeAdapter) SetHighScore(mode model.Mode, score int) {
	if err := a.st.SetHighScore(context.Background(), mode, score); err != nil {
		a.log.Warn().Err(err).Msg("failed to store high score")
	}
}

func (a *storeAdapter) RecordPlay(rec model.PlayRecord) {
	if err := a.st.InsertPlay(context.Background(), rec); err != nil {
		a.log.Warn().Err(err).Msg("failed to record play")
	}
}

func (a *storeAdapter) Count(itemID string) int {
	n, err := a.st.ItemCount(context.Background(), itemID)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to read inventory")
		return 0
	}
	return n
}

func (a *storeAdapter) Consume(itemID string) bool {
	ok, err := a.st.ConsumeItem(context.Background(), itemID)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to consume item")
		return false
	}
	return ok
}

func (a *storeAdapter) Refund(itemID string) {
	if err := a.st.AddItem(context.Background(), itemID, 1); err != nil {
		a.log.Warn().Err(err).Msg("failed to refund item")
	}
}

func (a *storeAdapter) RecordCompletion(score int) session.DailyOutcome {
	out, err := a.tracker.RecordCompletion(context.Background(), score)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to record daily completion")
		return session.DailyOutcome{}
	}
	return session.DailyOutcome{
		NewPersonalBest: out.NewPersonalBest,
		FirstToday:      out.FirstToday,
		Completions:     out.Completions,
		Streak:          out.Streak,
	}
}

// newLogger writes structured logs to the XDG state directory so the
// alt-screen TUI stays clean.
func newLogger(debug bool) (zerolog.Logger, func(), error) {
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), func() {}, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(file).Level(level).With().Timestamp().Logger()
	return logger, func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort log close.
			_ = cerr
		}
	}, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse play history and achievements",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter for text output")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N plays")
	cmd.Flags().BoolVar(&statsText, "text", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsText {
		return printStatsReport(cmd.OutOrStdout(), st)
	}

	ui := statsui.NewModel(st)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStatsReport(w io.Writer, st *store.Store) error {
	ctx := context.Background()
	mode := model.Mode(statsMode)
	if statsMode != "" && !mode.Valid() {
		return fmt.Errorf("unknown mode %q", statsMode)
	}

	modes := model.Modes
	if mode != "" {
		modes = []model.Mode{mode}
	}
	for _, m := range modes {
		recs, err := st.ListPlays(ctx, m, statsLast)
		if err != nil {
			return fmt.Errorf("failed to list plays: %w", err)
		}
		high, err := st.HighScore(ctx, m)
		if err != nil {
			return fmt.Errorf("failed to read high score: %w", err)
		}
		if err := stats.RenderSummary(w, m, stats.Summarize(recs), high); err != nil {
			return err
		}
		if len(recs) > 1 {
			width := 0
			if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = stats.PlotWidthFor(tw)
			}
			if err := stats.RenderCurves(w, recs, defaultCurveWindow, width, 0, false); err != nil {
				return err
			}
		}
	}

	recs, err := st.ListPlays(ctx, mode, statsLast)
	if err != nil {
		return fmt.Errorf("failed to list plays: %w", err)
	}
	return stats.RenderHistoryTable(w, recs)
}

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop [item-id]",
		Short: "List items, or buy one with sparks",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShopCmd,
	}
	return cmd
}

func runShopCmd(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sh := shop.New(st, achieve.NewLedger(st, logger), logger)
	ctx := context.Background()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		p, err := sh.Buy(ctx, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Bought %s for %d sparks. You own %d; %d sparks left.\n",
			p.Item.Name, p.Item.Cost, p.Owned, p.Balance)
		return err
	}

	balance, err := sh.Balance(ctx)
	if err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}
	listings, err := sh.Listings(ctx)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Sparks: %d\n\n", balance); err != nil {
		return err
	}
	for _, l := range listings {
		owned := ""
		if l.Owned > 0 {
			owned = fmt.Sprintf("  (owned %d)", l.Owned)
		}
		if _, err := fmt.Fprintf(out, "%-16s %4d  %s%s\n", l.Item.ID, l.Item.Cost, l.Item.Description, owned); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(out, "\nBuy with: mathsprint shop <item-id>")
	return err
}

func newDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show today's Daily Challenge status",
		Args:  cobra.NoArgs,
		RunE:  runDailyCmd,
	}
}

func runDailyCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	tracker := daily.NewTracker(st, nil)
	ctx := context.Background()
	best, err := tracker.Best(ctx)
	if err != nil {
		return fmt.Errorf("failed to read daily best: %w", err)
	}
	streak, err := tracker.Streak(ctx)
	if err != nil {
		return fmt.Errorf("failed to read daily streak: %w", err)
	}
	completions, err := tracker.Completions(ctx)
	if err != nil {
		return fmt.Errorf("failed to read daily completions: %w", err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Today's best: %d\n", best); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Streak: %d days\n", streak); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Total completions: %d\n", completions); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, "Play with: mathsprint --mode daily-challenge")
	return err
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mathsprint configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# mode = %q               # sprint, endless, survival, daily-challenge
# addition = true         # Enable addition problems
# subtraction = false     # Enable subtraction problems
# multiplication = false  # Enable multiplication problems
# division = false        # Enable division problems
# disable-countdown = false
# sound = true            # Terminal bell on game events
`, defaultMode)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
