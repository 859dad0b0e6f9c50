package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/pathways/internal/assessment"
	"github.com/pavelanni/pathways/internal/data"
	"github.com/pavelanni/pathways/internal/handler"
	appI18n "github.com/pavelanni/pathways/internal/i18n"
	"github.com/pavelanni/pathways/internal/llm"
	"github.com/pavelanni/pathways/internal/llm/prompts"
	"github.com/pavelanni/pathways/internal/matcher"
	"github.com/pavelanni/pathways/internal/model"
	"github.com/pavelanni/pathways/internal/questions"
	"github.com/pavelanni/pathways/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pathways",
		Short:        "Career interest assessment with major and career suggestions",
		SilenceUsage: true,
	}

	serve := serveCmd()
	root.AddCommand(serve, scoreCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `pathways --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP assessment server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", ":memory:", "SQLite database path (:memory: keeps sessions in RAM)")
	addDataFlags(f)
	f.StringP("lang", "l", "en", "Default UI language (en, es)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /pathways)")
	f.Bool("secure-cookies", true, "Set Secure flag on cookies")
	f.Duration("session-ttl", store.DefaultSessionTTL, "Idle lifetime of an assessment session")
	f.Duration("cleanup-interval", 10*time.Minute, "How often expired sessions are purged (0 disables)")
	f.String("llm-url", "", "OpenAI-compatible API base URL (empty disables the assistant)")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.String("prompt-variant", string(prompts.PromptStandard), "Assistant prompt variant (casual, standard)")
	addLogFlags(f)
	return cmd
}

func addDataFlags(f *pflag.FlagSet) {
	f.String("questions", "", "Question bank file, JSON or YAML (empty uses the bundled bank)")
	f.String("matches", "", "Match table file, JSON or YAML (empty uses the bundled table)")
}

func addLogFlags(f *pflag.FlagSet) {
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func setupLogging(v *viper.Viper) {
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

	v.SetEnvPrefix("PATHWAYS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("pathways")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/pathways")
	v.AddConfigPath("/etc/pathways")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// loadService reads the question bank and match table, from files when
// configured and from the bundled data otherwise.
func loadService(v *viper.Viper) (*assessment.Service, model.DataInfo, error) {
	var (
		bank    *questions.Bank
		qSource string
		err     error
	)
	if path := v.GetString("questions"); path != "" {
		bank, err = questions.Load(path)
		qSource = path
	} else {
		bank, err = questions.LoadFS(data.FS, data.QuestionsFile)
		qSource = "embedded:" + data.QuestionsFile
	}
	if err != nil {
		return nil, model.DataInfo{}, fmt.Errorf("load questions: %w", err)
	}

	var (
		m       *matcher.Matcher
		mSource string
	)
	if path := v.GetString("matches"); path != "" {
		m, err = matcher.Load(path)
		mSource = path
	} else {
		m, err = matcher.LoadFS(data.FS, data.MatchesFile)
		mSource = "embedded:" + data.MatchesFile
	}
	if err != nil {
		return nil, model.DataInfo{}, fmt.Errorf("load matches: %w", err)
	}

	svc := assessment.New(bank, m)
	info := svc.DataInfo(qSource, mSource)
	slog.Info("reference data loaded",
		"questions", info.QuestionCount, "questions_source", qSource,
		"matches", info.MatchCount, "matches_source", mSource)
	return svc, info, nil
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// newAssistant returns nil when no LLM endpoint is configured.
func newAssistant(ctx context.Context, v *viper.Viper) (handler.Assistant, error) {
	url := v.GetString("llm-url")
	if url == "" {
		slog.Info("assistant disabled: no llm-url configured")
		return nil, nil
	}

	variant := strings.ToLower(strings.TrimSpace(v.GetString("prompt-variant")))
	if !prompts.IsValidVariant(variant) {
		slog.Warn("invalid prompt-variant, using standard", "variant", variant)
		variant = string(prompts.PromptStandard)
	}
	client, err := llm.New(url, v.GetString("llm-key"), v.GetString("llm-model"), variant)
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("LLM health check: %w", err)
	}
	slog.Info("LLM endpoint OK", "url", url, "model", v.GetString("llm-model"), "prompt_variant", variant)
	return client, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, info, err := loadService(v)
	if err != nil {
		return err
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.SetDataInfo(info); err != nil {
		return fmt.Errorf("record data info: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	assistant, err := newAssistant(ctx, v)
	if err != nil {
		return err
	}

	basePath := normalizeBasePath(v.GetString("base-path"))
	appCfg := model.AppConfig{
		BasePath:      basePath,
		SecureCookies: v.GetBool("secure-cookies"),
		SessionTTL:    v.GetDuration("session-ttl"),
	}

	h, err := handler.New(db, svc, assistant, appCfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
		})
	} else {
		r.Use(h.BasePathMiddleware)
		h.Routes(r)
	}

	addr := v.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server",
			"addr", addr,
			"db", v.GetString("db"),
			"lang", lang,
			"base_path", basePath,
			"session_ttl", appCfg.SessionTTL,
			"assistant", assistant != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if interval := v.GetDuration("cleanup-interval"); interval > 0 {
		g.Go(func() error {
			return db.RunJanitor(gctx, interval)
		})
	}
	return g.Wait()
}
