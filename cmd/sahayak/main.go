package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sahayak-ai/sahayak/internal/classroom"
	"github.com/sahayak-ai/sahayak/internal/gateway"
	"github.com/sahayak-ai/sahayak/internal/handler"
	appI18n "github.com/sahayak-ai/sahayak/internal/i18n"
	"github.com/sahayak-ai/sahayak/internal/model"
	"github.com/sahayak-ai/sahayak/internal/roomstore"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sahayak",
		Short: "AI teaching assistant for multi-grade classrooms",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `sahayak --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "sahayak.db", "SQLite database path")
	f.String("provider", "gemini", "Generation backend (gemini, openai, anthropic, mock)")
	f.String("model", "", "Model name override for the selected provider")
	f.String("openai-url", "", "OpenAI-compatible API base URL (for local endpoints)")
	f.String("gemini-image-model", "", "Gemini model for slide images")
	f.String("gemini-tts-model", "", "Gemini model for read-aloud")
	f.String("tts-voice", "", "Voice name for read-aloud")
	f.Int("max-tokens", 0, "Maximum tokens per generation (0 = default)")
	f.StringP("lang", "l", "en", "Message language (en, hi)")
	f.Duration("poll-interval", 500*time.Millisecond, "Room change polling interval")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a room's activity and submissions as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "sahayak.db", "SQLite database path")
	f.String("room", "", "Room code to export (required)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("room")

	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("SAHAYAK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("sahayak")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/sahayak")
	v.AddConfigPath("/etc/sahayak")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func gatewayConfig(v *viper.Viper) gateway.Config {
	cfg := gateway.DefaultConfig()
	cfg.FillFromEnv()

	cfg.Provider = strings.ToLower(v.GetString("provider"))
	if m := v.GetString("model"); m != "" {
		switch cfg.Provider {
		case "openai":
			cfg.OpenAI.Model = m
		case "anthropic":
			cfg.Anthropic.Model = m
		default:
			cfg.Gemini.Model = m
		}
	}
	if u := v.GetString("openai-url"); u != "" {
		cfg.OpenAI.BaseURL = u
	}
	if m := v.GetString("gemini-image-model"); m != "" {
		cfg.Gemini.ImageModel = m
	}
	if m := v.GetString("gemini-tts-model"); m != "" {
		cfg.Gemini.TTSModel = m
	}
	if voice := v.GetString("tts-voice"); voice != "" {
		cfg.Gemini.Voice = voice
	}
	if n := v.GetInt("max-tokens"); n > 0 {
		cfg.MaxTokens = n
	}
	return cfg
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	store, err := roomstore.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()
	if interval := v.GetDuration("poll-interval"); interval > 0 {
		store.PollInterval = interval
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	cfg := gatewayConfig(v)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("gateway config: %w", err)
	}
	gw, err := gateway.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	h := handler.New(store, gw)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"provider", cfg.Provider,
		"db", v.GetString("db"),
		"lang", lang,
		"poll_interval", store.PollInterval,
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	store, err := roomstore.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	code := classroom.NormalizeCode(v.GetString("room"))

	var record model.ClassroomRecord
	found, err := store.Read(roomstore.ClassroomKey(code), &record)
	if err != nil {
		return fmt.Errorf("read room %s: %w", code, err)
	}
	if !found {
		return fmt.Errorf("room %s not found", code)
	}

	subs := []model.Submission{}
	if _, err := store.Read(roomstore.SubmissionsKey(code), &subs); err != nil {
		return fmt.Errorf("read submissions for %s: %w", code, err)
	}

	export := struct {
		RoomCode    string                `json:"roomCode"`
		Activity    model.ClassroomRecord `json:"activity"`
		Submissions []model.Submission    `json:"submissions"`
	}{
		RoomCode:    code,
		Activity:    record,
		Submissions: subs,
	}

	var out io.Writer = os.Stdout
	if path := v.GetString("output"); path != "-" && path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	slog.Info("exported room", "code", code, "submissions", len(subs))
	return nil
}
