package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/rahul/webo/internal/agent"
	"github.com/rahul/webo/internal/gateway"
	"github.com/rahul/webo/internal/governance"
	"github.com/rahul/webo/internal/observability"
	"github.com/rahul/webo/internal/store"
	"github.com/rahul/webo/internal/tools"
	"github.com/rahul/webo/pkg/config"
)

func main() {
	observability.PrintBanner()

	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg := config.LoadConfig(*cfgPath)
	logger := observability.NewLogger()

	jobs, err := store.NewJobStore(cfg.Memory.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer jobs.Close()

	// Search stage
	if cfg.Search.APIKey == "" {
		log.Fatal("search API key is missing (set search.api_key or EXA_API_KEY)")
	}
	registry := tools.NewRegistry()
	searchTool := tools.NewSearchTool(tools.NewExaClient(cfg.Search.APIKey), cfg.Search.NumResults)
	if cfg.Search.Enrich {
		searchTool.Enricher = tools.NewPageEnricher()
	}
	registry.Register(searchTool)

	prompts := agent.NewPromptManager(cfg.App.PromptsDir)

	// Query admission rules
	gov := governance.NewDefaultPolicyEngine()
	if cfg.Policy.MaxQueryLen > 0 {
		gov.MaxQueryLen = cfg.Policy.MaxQueryLen
	}
	for _, p := range cfg.Policy.DenyPatterns {
		if err := gov.DenyPattern(p); err != nil {
			log.Printf("Warning: invalid deny pattern %q: %v", p, err)
		}
	}

	// Initialize LLM (using default enabled provider)
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var llm llms.Model
	switch pName {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		llm, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}

	orch := agent.NewOrchestrator(
		jobs,
		agent.NewLLMDecomposer(llm, prompts, logger),
		agent.NewLLMSynthesizer(llm, prompts, logger),
		registry,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := agent.NewRunner(ctx, orch)
	watcher := agent.NewWatcher(jobs)

	gw := gateway.NewHTTPGateway(jobs, runner, watcher, gov, logger)
	gw.AllowedOrigins = cfg.Server.AllowedOrigins

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: gw.Routes(),
	}

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
				logger.LogHeartbeat()
			}
		}
	}()

	go func() {
		log.Printf("%s listening on %s", cfg.App.Name, cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// In-flight jobs see the canceled context, fail fast, and persist their
	// terminal state before we let go.
	runner.Wait()
	log.Println("shutdown complete")
}
