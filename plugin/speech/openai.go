package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/voicecart/voicecart/store/cache"
)

// Client synthesizes reply audio through an OpenAI-compatible TTS
// endpoint. Synthesized clips are cached by text so that serving the
// audio of a just-spoken reply does not hit the API twice.
type Client struct {
	api   *openai.Client
	model string
	voice string
	cache *cache.Cache
}

// NewClient creates a TTS client. baseURL, model, and voice fall back to
// the OpenAI defaults when empty.
func NewClient(apiKey, baseURL, model, voice string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceNova)
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: model,
		voice: voice,
		cache: cache.New(cache.Config{
			DefaultTTL:      10 * time.Minute,
			CleanupInterval: time.Minute,
			MaxItems:        256,
		}),
	}
}

// Synthesize returns MP3 audio for the text, from cache when available.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	spoken := FormatForSpeech(text)
	key := clipKey(spoken)
	if clip, ok := c.cache.Get(key); ok {
		return clip.([]byte), nil
	}

	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.model),
		Input:          spoken,
		Voice:          openai.SpeechVoice(c.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create speech")
	}
	defer resp.Close()

	clip, err := io.ReadAll(resp)
	if err != nil {
		return nil, errors.Wrap(err, "read speech response")
	}
	c.cache.Set(key, clip)
	return clip, nil
}

// Speak pre-synthesizes the reply so the clip is already cached when the
// client fetches it. Implements the session's speaker surface.
func (c *Client) Speak(ctx context.Context, text string) error {
	_, err := c.Synthesize(ctx, text)
	return err
}

// Stop is a no-op; playback happens on the client.
func (c *Client) Stop() {}

// Close releases the clip cache.
func (c *Client) Close() {
	c.cache.Close()
}

func clipKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
