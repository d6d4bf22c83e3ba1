package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	specialistx "github.com/sudeep-c/NEXTGENMARKETER/agent/agents/specialist"
	workflowx "github.com/sudeep-c/NEXTGENMARKETER/agent/agents/workflow"
	llmx "github.com/sudeep-c/NEXTGENMARKETER/agent/llm"
	retrievalx "github.com/sudeep-c/NEXTGENMARKETER/agent/retrieval"
	statex "github.com/sudeep-c/NEXTGENMARKETER/agent/state"
	configx "github.com/sudeep-c/NEXTGENMARKETER/pkg/config"
	_ "github.com/sudeep-c/NEXTGENMARKETER/pkg/logger/autoload"
	openrouterx "github.com/sudeep-c/NEXTGENMARKETER/pkg/openrouter"
	serverx "github.com/sudeep-c/NEXTGENMARKETER/server"
)

func main() {
	ctx := context.Background()

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	chatModel, err := openRouterCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create chat model")
	}

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	completer, err := llmx.NewClient(chatModel, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create completion client")
	}

	retrievalCfg := configx.MustNew[retrievalx.Config]("RETRIEVAL")
	retriever, err := retrievalx.NewClient(*retrievalCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create retrieval client")
	}

	agents, err := specialistx.NewRegistry(retriever, completer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build agent registry")
	}

	store := buildStore()

	engine, err := workflowx.New(agents, store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build workflow engine")
	}

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	srv, err := serverx.New(*serverCfg, engine)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build http server")
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, serverCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildStore prefers Upstash Redis when configured and falls back to an
// in-process store so the service still runs without external state.
func buildStore() statex.Store {
	if os.Getenv("UPSTASH_REDIS_URL") == "" {
		log.Info().Msg("upstash redis not configured; using in-memory thread store")
		return statex.NewMemoryStore()
	}

	redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	store, err := statex.NewUpstashRedisStore(*redisCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create redis thread store")
	}
	return store
}
