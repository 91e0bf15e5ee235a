package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/abhisek/sahayak/internal/assistant"
	"github.com/abhisek/sahayak/internal/llm"
	"github.com/abhisek/sahayak/internal/store"
	"github.com/abhisek/sahayak/internal/teach"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant to explain, tell a story, or draw a visual aid",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		language, _ := cmd.Flags().GetString("language")
		imageOut, _ := cmd.Flags().GetString("image-out")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		chat, svc, err := buildAssistantDeps(ctx, s)
		if err != nil {
			return err
		}

		router, err := assistant.NewAssistant(chat, svc, assistant.DefaultConfig(), cliLogger())
		if err != nil {
			return err
		}

		turn := router.Ask(ctx, assistant.Query{
			Text:     strings.Join(args, " "),
			Language: language,
		})

		for chunk := range turn.Text() {
			fmt.Print(chunk)
		}
		fmt.Println()

		resp, err := turn.Wait(ctx)
		if err != nil {
			return err
		}
		return renderResponse(resp, imageOut)
	},
}

func init() {
	askCmd.Flags().StringP("language", "l", "", "Language for the reply and generated content")
	askCmd.Flags().String("image-out", "visual-aid.png", "File to save a generated visual aid to")
}

// openStore resolves the database path and opens the store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// buildAssistantDeps wires the chat, text, and image providers from the
// environment. The text provider is wrapped with retry and request
// logging; image generation is optional and degrades to a tool error
// when the configured provider cannot draw.
func buildAssistantDeps(ctx context.Context, s *store.Store) (llm.ChatProvider, *teach.Service, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, nil, err
		}
		cfg = discovered
	}

	chat, err := llm.NewChatProvider(ctx, cfg, s.EventRepo())
	if err != nil {
		return nil, nil, err
	}

	provider, err := llm.NewProvider(ctx, cfg, s.EventRepo())
	if err != nil {
		return nil, nil, err
	}

	var images llm.ImageProvider
	if ip, err := llm.NewImageProvider(ctx, cfg, s.EventRepo()); err == nil {
		images = ip
	}

	return chat, teach.NewService(provider, images, teach.DefaultConfig()), nil
}

func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// renderResponse prints tool payloads that arrived alongside the
// streamed conversational text.
func renderResponse(resp *assistant.Response, imageOut string) error {
	if p, ok := resp.Payloads[assistant.KeyExplanation]; ok {
		e := p.(assistant.ExplanationPayload)
		fmt.Println()
		fmt.Println("Explanation")
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println(e.Explanation)
		if e.Analogy != "" {
			fmt.Println()
			fmt.Println("Analogy:", e.Analogy)
		}
	}

	if p, ok := resp.Payloads[assistant.KeyStory]; ok {
		st := p.(assistant.StoryPayload)
		fmt.Println()
		fmt.Println("Story")
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println(st.Story)
	}

	if p, ok := resp.Payloads[assistant.KeyVisualAid]; ok {
		v := p.(assistant.VisualAidPayload)
		if imageOut == "" {
			fmt.Println()
			fmt.Printf("Visual aid generated (%d bytes, pass --image-out to save)\n", len(v.DataURI))
		} else if err := saveDataURI(v.DataURI, imageOut); err != nil {
			return fmt.Errorf("save visual aid: %w", err)
		} else {
			fmt.Println()
			fmt.Println("Visual aid saved to", imageOut)
		}
	}

	return nil
}

// saveDataURI decodes a base64 data URI and writes the bytes to path.
func saveDataURI(uri, path string) error {
	_, data, found := strings.Cut(uri, ",")
	if !found {
		return fmt.Errorf("malformed data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
