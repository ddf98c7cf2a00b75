// Package main provides the CLI entrypoint for pronounce.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/baldojulio/speech-pronunciation/internal/align"
	"github.com/baldojulio/speech-pronunciation/internal/config"
	"github.com/baldojulio/speech-pronunciation/internal/generator"
	"github.com/baldojulio/speech-pronunciation/internal/model"
	"github.com/baldojulio/speech-pronunciation/internal/recognize"
	"github.com/baldojulio/speech-pronunciation/internal/session"
	"github.com/baldojulio/speech-pronunciation/internal/stats"
	"github.com/baldojulio/speech-pronunciation/internal/store"
	"github.com/baldojulio/speech-pronunciation/internal/token"
	"github.com/baldojulio/speech-pronunciation/internal/tui"
	"github.com/baldojulio/speech-pronunciation/internal/wordlist"
)

const (
	defaultLang        = "en-US"
	defaultServerURL   = "ws://localhost:2700"
	defaultDebounceMs  = 100
	defaultSilenceMs   = 3000
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	scriptStepDelay    = 300 * time.Millisecond
)

var (
	practiceLang       string
	practiceServer     string
	practiceDebounceMs int
	practiceSilenceMs  int
	practiceScript     string
	practiceRandom     int
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int

	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pronounce",
		Short:         "TUI pronunciation trainer driven by live speech recognition",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "BCP-47 language tag")
	rootCmd.Flags().StringVar(&practiceServer, "server", defaultServerURL, "speech-to-text server WebSocket URL")
	rootCmd.Flags().IntVar(&practiceDebounceMs, "debounce-ms", defaultDebounceMs, "quiet period before applying a recognition snapshot")
	rootCmd.Flags().IntVar(&practiceSilenceMs, "silence-ms", defaultSilenceMs, "silence before the status indicator changes")
	rootCmd.Flags().StringVar(&practiceScript, "script", "", "replay a transcript script instead of connecting to a server")
	rootCmd.Flags().IntVar(&practiceRandom, "random", 0, "generate a practice sentence of N random words")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias generated sentences toward weak words")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak words to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak words")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak words")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "server", &practiceServer, fileCfg.Recognizer.ServerURL)
	applyIntConfig(cmd, "debounce-ms", &practiceDebounceMs, fileCfg.Practice.DebounceMs)
	applyIntConfig(cmd, "silence-ms", &practiceSilenceMs, fileCfg.Practice.SilenceMs)
	applyStringConfig(cmd, "script", &practiceScript, fileCfg.Recognizer.Script)
	applyIntConfig(cmd, "random", &practiceRandom, fileCfg.Practice.RandomWords)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		Lang:        practiceLang,
		ServerURL:   practiceServer,
		DebounceMs:  practiceDebounceMs,
		SilenceMs:   practiceSilenceMs,
		ScriptPath:  practiceScript,
		RandomWords: practiceRandom,
		FocusWeak:   practiceFocusWeak,
		WeakTop:     practiceWeakTop,
		WeakFactor:  practiceWeakFactor,
		WeakWindow:  practiceWeakWindow,
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	recog, err := buildRecognizer(cfg)
	if err != nil {
		return err
	}

	tok := token.New(cfg.Lang)

	initialText := ""
	if cfg.RandomWords > 0 {
		initialText, err = generateSentence(cfg, st, tok)
		if err != nil {
			return err
		}
	}

	tracker := session.NewTracker(tok, align.Sequential{})

	m := tui.NewModel(cfg, st, tracker, recog, initialText)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildRecognizer(cfg model.Config) (recognize.Recognizer, error) {
	if cfg.ScriptPath != "" {
		script, err := recognize.LoadScript(cfg.ScriptPath, scriptStepDelay)
		if err != nil {
			return nil, fmt.Errorf("failed to load script: %w", err)
		}
		return script, nil
	}
	client, err := recognize.NewClient(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer client: %w", err)
	}
	return client, nil
}

func generateSentence(cfg model.Config, st *store.Store, tok *token.Tokenizer) (string, error) {
	wordPath := config.DefaultWordListPath(cfg.Lang)
	words, err := wordlist.Load(wordPath, tok)
	if err != nil {
		return "", fmt.Errorf("failed to load word list %s: %w", wordPath, err)
	}
	gen := generator.New()
	if cfg.FocusWeak {
		aggs, err := st.GetWeakWords(context.Background(), cfg.WeakWindow, cfg.Lang)
		if err != nil {
			logErrf("failed to load weak words: %v\n", err)
		} else if weakSet := stats.SelectWeakWords(aggs, cfg.WeakTop); len(weakSet) > 0 {
			return gen.SentenceWeighted(words, cfg.RandomWords, weakSet, cfg.WeakFactor), nil
		} else {
			logErrln("no stats available for weak-word focus yet; using uniform selection")
		}
	}
	return gen.Sentence(words, cfg.RandomWords), nil
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Lang:        statsLang,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), cfg)
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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
	return fmt.Sprintf(`# pronounce configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q           # BCP-47 language tag (default %q)
# debounce-ms = %d       # Quiet period before applying a recognition snapshot
# silence-ms = %d       # Silence before the status indicator changes
# random-words = 0        # Generate a practice sentence of N random words
# focus-weak = false      # Bias generated sentences toward weak words
# weak-top = %d            # Number of weak words to focus on
# weak-factor = %.1f       # Weight factor for weak words
# weak-window = %d        # Number of recent sessions to compute weak words

[recognizer]
# server-url = %q # Speech-to-text server WebSocket URL
# script = ""             # Replay a transcript script instead of connecting
`,
		defaultLang,
		defaultLang,
		defaultDebounceMs,
		defaultSilenceMs,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultServerURL,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.DebounceMs <= 0 {
		return fmt.Errorf("--debounce-ms must be > 0")
	}
	if cfg.SilenceMs < 0 {
		return fmt.Errorf("--silence-ms must be >= 0")
	}
	if cfg.RandomWords < 0 {
		return fmt.Errorf("--random must be >= 0")
	}
	if cfg.ScriptPath == "" && cfg.ServerURL == "" {
		return fmt.Errorf("--server must not be empty without --script")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
