package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grana-sh/grana/internal/apierrors"
	"github.com/grana-sh/grana/internal/env"
	"github.com/grana-sh/grana/internal/httpstatus"
	"go.uber.org/zap"
)

// Client talks to an Evolution API instance. The only call this application
// needs is sending a plain text message.
type Client struct {
	config     env.EvolutionConfig
	httpClient *http.Client
	logger     *zap.Logger
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

func NewClient(config env.EvolutionConfig, logger *zap.Logger) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (c *Client) SendText(ctx context.Context, channelAddress, text string) error {
	if !c.config.Complete() {
		return apierrors.ErrMessengerNotConfigured
	}

	endpoint := fmt.Sprintf("%v/message/sendText/%v",
		strings.TrimSuffix(c.config.BaseURL, "/"), c.config.Instance)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(sendTextRequest{
		Number: channelAddress,
		Text:   text,
	}); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.config.APIKey)

	resp, err := httpstatus.CheckStatus(c.httpClient.Do(req))
	if err != nil {
		c.logger.Warn("evolution api send failed", zap.Error(err))
		return fmt.Errorf("%w: %w", apierrors.ErrDeliveryFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()
	return nil
}
