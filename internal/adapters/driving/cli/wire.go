package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/operand-hq/crewd/internal/adapters/driven/ai"
	configfile "github.com/operand-hq/crewd/internal/adapters/driven/config/file"
	storagefile "github.com/operand-hq/crewd/internal/adapters/driven/storage/file"
	"github.com/operand-hq/crewd/internal/adapters/driven/storage/sqlite"
	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
	"github.com/operand-hq/crewd/internal/core/ports/driving"
	"github.com/operand-hq/crewd/internal/core/services"
	"github.com/operand-hq/crewd/internal/logger"
	"github.com/operand-hq/crewd/internal/tools"
)

// Package-level services, wired on first use. Tests inject fakes directly.
var (
	configStore      driven.ConfigStore
	llmService       driven.LLMService
	historyStore     driven.ExecutionStore
	retrievalService driving.RetrievalService
	knowledgeService driving.KnowledgeService
	dispatchService  driving.DispatchService

	corpusWatcher *storagefile.Watcher
	watcherCancel context.CancelFunc
	wired         bool
)

// initServices builds the full adapter/service graph. It is idempotent, and
// a no-op when a test has pre-populated the service variables.
func initServices() error {
	if wired || dispatchService != nil {
		return nil
	}

	cfg, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = cfg

	corpusPath := cfg.GetString("knowledge.path")
	if corpusPath == "" && flagConfigDir != "" {
		corpusPath = filepath.Join(flagConfigDir, storagefile.DefaultCorpusFile)
	}
	corpusStore, err := storagefile.NewCorpusStore(corpusPath)
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}

	retrieval := services.NewRetrievalService(corpusStore)
	retrievalService = retrieval

	knowledge := services.NewKnowledgeService(corpusStore)
	knowledge.SetRetrievalService(retrieval)
	knowledgeService = knowledge

	llm, err := ai.CreateLLMService(llmSettingsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("creating LLM service: %w", err)
	}
	llmService = llm

	registry := tools.New()
	execution := services.NewExecutionService(llm, registry)
	execution.SetRetrievalService(retrieval)
	if maxTurns := cfg.GetInt("execution.max_turns"); maxTurns > 0 {
		execution.SetMaxTurns(maxTurns)
	}
	registry.SetSubAgentRunner(execution.RunSubAgent)

	dispatch := services.NewDispatchService(services.NewRouterService(llm), execution, knowledge)

	dataDir := ""
	if flagConfigDir != "" {
		dataDir = filepath.Join(flagConfigDir, "data")
	}
	history, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("Execution history unavailable: %v", err)
	} else {
		historyStore = history
		dispatch.SetExecutionStore(history)
	}
	dispatchService = dispatch

	// Hand edits to the corpus file invalidate the retrieval index.
	watcher, err := storagefile.NewWatcher(corpusStore.Path(), retrieval.Invalidate)
	if err == nil {
		ctx, cancel := context.WithCancel(context.Background())
		if err := watcher.Start(ctx); err == nil {
			corpusWatcher = watcher
			watcherCancel = cancel
		} else {
			cancel()
			watcher.Close()
		}
	}

	wired = true
	return nil
}

// closeServices releases wired resources.
func closeServices() {
	if watcherCancel != nil {
		watcherCancel()
		watcherCancel = nil
	}
	if corpusWatcher != nil {
		corpusWatcher.Close()
		corpusWatcher = nil
	}
	if historyStore != nil {
		historyStore.Close()
		historyStore = nil
	}
	if llmService != nil {
		llmService.Close()
		llmService = nil
	}
	wired = false
}

// llmSettingsFromConfig reads the llm.* config keys. The ANTHROPIC_API_KEY
// environment variable works as a fallback so the CLI is usable without a
// config file.
func llmSettingsFromConfig(cfg driven.ConfigStore) *domain.LLMSettings {
	settings := &domain.LLMSettings{
		Provider: domain.AIProvider(cfg.GetString("llm.provider")),
		Model:    cfg.GetString("llm.model"),
		BaseURL:  cfg.GetString("llm.base_url"),
		APIKey:   cfg.GetString("llm.api_key"),
	}
	if settings.APIKey == "" {
		settings.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if settings.Provider == "" && settings.APIKey != "" {
		settings.Provider = domain.AIProviderAnthropic
	}
	return settings
}
