package story

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/rs/zerolog/log"
)

// Config holds the fixed generation parameters sent along with every request
type Config struct {
	ModelID       string
	MaxTokenCount int
	Temperature   float64
	TopP          float64
	StopSequences []string
}

// bedrockAPI defines the part of the Bedrock runtime API the client relies on
type bedrockAPI interface {
	InvokeModelWithResponseStream(ctx context.Context, params *bedrockruntime.InvokeModelWithResponseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelWithResponseStreamOutput, error)
}

// Client produces short stories by streaming completions from a Bedrock text model
type Client struct {
	api    bedrockAPI
	config Config
}

// NewClient creates a new story client on top of a Bedrock runtime API
func NewClient(api bedrockAPI, config Config) *Client {
	return &Client{
		api:    api,
		config: config,
	}
}

type generationRequest struct {
	InputText            string           `json:"inputText"`
	TextGenerationConfig generationConfig `json:"textGenerationConfig"`
}

type generationConfig struct {
	MaxTokenCount int      `json:"maxTokenCount"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"topP"`
	StopSequences []string `json:"stopSequences"`
}

type outputChunk struct {
	OutputText string `json:"outputText"`
}

// Generate asks the model for a bedtime story about the given topic and returns
// the full story text and 'true' on success.
// The model response arrives as an ordered chunk stream; the chunks are
// concatenated into a single string. Any failure, even one occurring after
// chunks have already been received, discards the partial text and collapses to
// ("", false); the cause is only logged.
// The call blocks for the full generation latency. No timeout is imposed beyond
// the transport's own defaults, so callers should pass a request-scoped context.
func (client *Client) Generate(ctx context.Context, topic string) (string, bool) {
	instruction := fmt.Sprintf("You are a world-class writer. Please write a sweet bedtime story about %s.", topic)
	body, err := json.Marshal(generationRequest{
		InputText: instruction,
		TextGenerationConfig: generationConfig{
			MaxTokenCount: client.config.MaxTokenCount,
			Temperature:   client.config.Temperature,
			TopP:          client.config.TopP,
			StopSequences: client.config.StopSequences,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("could not encode the model request")
		return "", false
	}

	response, err := client.api.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     aws.String(client.config.ModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		log.Error().Err(err).Str("model", client.config.ModelID).Msg("could not invoke the model")
		return "", false
	}

	stream := response.GetStream()
	defer stream.Close()

	text, err := collect(stream.Events())
	if err != nil {
		log.Error().Err(err).Str("model", client.config.ModelID).Msg("could not decode the model response")
		return "", false
	}
	if err := stream.Err(); err != nil {
		log.Error().Err(err).Str("model", client.config.ModelID).Msg("the model response stream failed")
		return "", false
	}

	log.Info().Str("model", client.config.ModelID).Int("length", len(text)).Msg("generated a story")
	return text, true
}

// collect drains the event stream and concatenates the text deltas in delivery order.
// Events without a chunk payload are skipped. A chunk that cannot be decoded
// fails the whole aggregation; text collected up to that point is discarded.
func collect(events <-chan types.ResponseStream) (string, error) {
	var text strings.Builder
	for event := range events {
		chunk, ok := event.(*types.ResponseStreamMemberChunk)
		if !ok || len(chunk.Value.Bytes) == 0 {
			continue
		}
		part := outputChunk{}
		if err := json.Unmarshal(chunk.Value.Bytes, &part); err != nil {
			return "", fmt.Errorf("malformed chunk: %w", err)
		}
		text.WriteString(part.OutputText)
	}
	return text.String(), nil
}
