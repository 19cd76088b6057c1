package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

type SlackNotifier struct {
	botToken    string
	channel     string
	mentionTeam string
	httpClient  *http.Client
}

func NewSlackNotifier(botToken, channel, mentionTeam string) *SlackNotifier {
	return &SlackNotifier{
		botToken:    botToken,
		channel:     channel,
		mentionTeam: mentionTeam,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NotifyLowTrust sends a formatted alert when an analyzed brand lands in
// low-trust territory.
func (s *SlackNotifier) NotifyLowTrust(report domain.AnalysisReport) error {
	blocks := s.buildLowTrustBlocks(report)

	payload := SlackMessage{
		Channel: s.channel,
		Blocks:  blocks,
		Text:    fmt.Sprintf("⚠️ Low trust score for %s: %.1f/10", report.BrandName, report.OverallScore),
	}

	return s.sendMessage(payload)
}

func (s *SlackNotifier) buildLowTrustBlocks(report domain.AnalysisReport) []SlackBlock {
	blocks := []SlackBlock{
		{
			Type: "header",
			Text: &SlackText{
				Type: "plain_text",
				Text: "⚠️ Low Trust Score Alert",
			},
		},
		{
			Type: "section",
			Fields: []SlackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Brand*\n%s", report.BrandName)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Trust Score*\n%.1f/10", report.OverallScore)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Assessment*\n%s", report.Recommendation)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Run ID*\n`%s`", report.RunID)},
			},
		},
		{
			Type: "divider",
		},
	}

	if len(report.AreasOfConcern) > 0 {
		concernsText := "*Areas of Concern*\n"
		for _, concern := range report.AreasOfConcern {
			concernsText += fmt.Sprintf("• %s\n", concern)
		}
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: concernsText,
			},
		})
	}

	if len(report.Errors) > 0 {
		blocks = append(blocks, SlackBlock{
			Type: "context",
			Elements: []SlackText{
				{
					Type: "mrkdwn",
					Text: fmt.Sprintf("Degraded sources: %s", strings.Join(report.Errors, "; ")),
				},
			},
		})
	}

	if s.mentionTeam != "" {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("cc: %s", s.mentionTeam),
			},
		})
	}

	return blocks
}

// Send message to Slack
func (s *SlackNotifier) sendMessage(msg SlackMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequest("POST", "https://slack.com/api/chat.postMessage", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.botToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API returned status %d", resp.StatusCode)
	}

	return nil
}

// Slack API structures

type SlackMessage struct {
	Channel string       `json:"channel"`
	Blocks  []SlackBlock `json:"blocks"`
	Text    string       `json:"text"` // Fallback text
}

type SlackBlock struct {
	Type     string      `json:"type"`
	Text     *SlackText  `json:"text,omitempty"`
	Fields   []SlackText `json:"fields,omitempty"`
	Elements []SlackText `json:"elements,omitempty"`
}

type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
