package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/plexsearch/chat-client/config"
	"github.com/plexsearch/chat-client/internal/app"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath       = flag.String("config", "config.yml", "path to the config file")
		chatID        = flag.String("chat", "", "resume an existing chat by id")
		initial       = flag.String("q", "", "send this message as the first turn")
		openAIKey     = flag.String("openai-key", "", "store the custom provider API key")
		openAIBaseURL = flag.String("openai-base-url", "", "store the custom provider base URL")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(
		ctx, cfg, app.Options{
			ChatID:         *chatID,
			InitialMessage: *initial,
			OpenAIKey:      *openAIKey,
			OpenAIBaseURL:  *openAIBaseURL,
		},
	); err != nil {
		log.Fatal(err)
	}
}
