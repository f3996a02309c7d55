package main

import (
	"context"
	"log"
	"net/http"

	"github.com/marcilla-smith/wellcheck-mvp/internal/adapters/geo"
	httpadapter "github.com/marcilla-smith/wellcheck-mvp/internal/adapters/http"
	"github.com/marcilla-smith/wellcheck-mvp/internal/adapters/llm"
	"github.com/marcilla-smith/wellcheck-mvp/internal/app/checkin"
	"github.com/marcilla-smith/wellcheck-mvp/internal/config"
	"github.com/marcilla-smith/wellcheck-mvp/internal/domain"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// Choose between mock and Gemini by ENV (useful for dev)
	var (
		llmClient domain.LLMClient
		err       error
	)

	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		log.Println("[LLM] Using Gemini LLM client", "model:", cfg.ModelName)
		llmClient, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini LLM client: %v", err)
		}
	}

	resolver := geo.NewResolver(cfg.PrimaryGeoBaseURL, cfg.SecondaryGeoBaseURL, cfg.GeoTimeout)

	svc := checkin.NewService(llmClient, resolver, cfg.LLMTimeout)

	handler := httpadapter.NewServer(svc)

	port := ":" + cfg.Port
	log.Println("Wellcheck API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}
