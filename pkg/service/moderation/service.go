package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
)

// ErrUnavailable is returned when the moderation service cannot be
// reached or returns output the client cannot interpret
var ErrUnavailable = errors.New("moderation service unavailable")

// Client screens normalized transcripts for sensitive content using an
// LLM with a JSON-schema constrained session
type Client struct {
	llmClient gollem.LLMClient
}

var _ interfaces.Moderator = &Client{}

// New creates a new moderation client with the provided LLM client
func New(llmClient gollem.LLMClient) (*Client, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	return &Client{llmClient: llmClient}, nil
}

// llmVerdict is the raw schema-constrained LLM response
type llmVerdict struct {
	Flagged  bool   `json:"flagged"`
	Subject  string `json:"subject"`
	Summary  string `json:"summary"`
	Headline string `json:"headline"`
}

// Review evaluates one transcript and returns a verdict. A transport
// failure or a response outside the schema aborts with ErrUnavailable;
// the caller must not proceed without a verdict.
func (c *Client) Review(ctx context.Context, text string) (*model.ModerationVerdict, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "failed to create LLM session", goerr.V("cause", err.Error()))
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(text)))
	if err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "failed to generate verdict", goerr.V("cause", err.Error()))
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.Wrap(ErrUnavailable, "empty response from moderation model")
	}

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(resp.Texts[0]), &verdict); err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "malformed verdict from moderation model",
			goerr.V("response", resp.Texts[0]),
		)
	}

	return &model.ModerationVerdict{
		Flagged:  verdict.Flagged,
		Subject:  verdict.Subject,
		Summary:  verdict.Summary,
		Headline: verdict.Headline,
	}, nil
}

// buildSystemPrompt creates the fixed system prompt for transcript screening
func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a conversation safety reviewer. Your task is to analyze a transcript of a recorded conversation and decide whether it contains harassment, threats, or abusive behavior directed at a person.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Read the full transcript. Each line is formatted as \"speaker: text\" in chronological order.\n")
	sb.WriteString("2. Set flagged to true only when the transcript contains harassment, threats, intimidation, or abusive language targeted at someone.\n")
	sb.WriteString("3. When flagged, provide:\n")
	sb.WriteString("   - subject: the name or label of the person the behavior is directed at\n")
	sb.WriteString("   - summary: a brief factual summary of what happened\n")
	sb.WriteString("   - headline: a one-line description suitable for a report listing\n")
	sb.WriteString("4. When the transcript is clean, set flagged to false and leave the other fields empty.\n")

	return sb.String()
}

// buildUserPrompt wraps the transcript for review
func buildUserPrompt(text string) string {
	var sb strings.Builder

	sb.WriteString("## Transcript to review:\n\n")
	sb.WriteString(text)

	return sb.String()
}

func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ModerationVerdict",
		Description: "Screening verdict for one conversation transcript",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"flagged": {
				Type:        gollem.TypeBoolean,
				Description: "Whether the transcript contains harassment or abusive behavior",
				Required:    true,
			},
			"subject": {
				Type:        gollem.TypeString,
				Description: "Name or label of the person the behavior is directed at",
			},
			"summary": {
				Type:        gollem.TypeString,
				Description: "Brief factual summary of the flagged behavior",
			},
			"headline": {
				Type:        gollem.TypeString,
				Description: "One-line description for report listings",
			},
		},
	}
}
