// Package market fetches live 24h ticker statistics from the public Binance
// REST API and maintains a periodically refreshed top-pairs view.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"strade-dashboard/config"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Ticker holds 24hr price change statistics for one symbol.
type Ticker struct {
	Symbol             string  `json:"symbol"`
	PriceChange        float64 `json:"priceChange,string"`
	PriceChangePercent float64 `json:"priceChangePercent,string"`
	WeightedAvgPrice   float64 `json:"weightedAvgPrice,string"`
	LastPrice          float64 `json:"lastPrice,string"`
	Volume             float64 `json:"volume,string"`
	QuoteVolume        float64 `json:"quoteVolume,string"`
	OpenTime           int64   `json:"openTime"`
	CloseTime          int64   `json:"closeTime"`
	Count              int64   `json:"count"`
}

// Client is a read-only Binance REST client. No API key is needed for the
// public market data endpoints.
type Client struct {
	client *resty.Client
	logger zerolog.Logger
}

// NewClient creates a market data client from configuration.
func NewClient(cfg config.MarketConfig, logger zerolog.Logger) *Client {
	client := resty.New().
		SetDebug(cfg.Debug).
		SetTimeout(cfg.Timeout).
		SetBaseURL(cfg.BaseURL)

	return &Client{
		client: client,
		logger: logger.With().Str("component", "MarketClient").Logger(),
	}
}

// GetAllTickers fetches the full 24hr ticker table for every traded symbol.
func (c *Client) GetAllTickers(ctx context.Context) ([]Ticker, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get("/api/v3/ticker/24hr")
	if err != nil {
		return nil, fmt.Errorf("error fetching 24hr tickers: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("ticker API error: status %d: %s", resp.StatusCode(), resp.String())
	}

	var tickers []Ticker
	if err := json.Unmarshal(resp.Body(), &tickers); err != nil {
		return nil, fmt.Errorf("error parsing tickers: %w", err)
	}

	c.logger.Debug().Int("count", len(tickers)).Msg("fetched 24hr tickers")
	return tickers, nil
}

// GetTicker fetches 24hr statistics for a single symbol.
func (c *Client) GetTicker(ctx context.Context, symbol string) (*Ticker, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbol", symbol).
		Get("/api/v3/ticker/24hr")
	if err != nil {
		return nil, fmt.Errorf("error fetching ticker %s: %w", symbol, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("ticker API error for %s: status %d: %s", symbol, resp.StatusCode(), resp.String())
	}

	var ticker Ticker
	if err := json.Unmarshal(resp.Body(), &ticker); err != nil {
		return nil, fmt.Errorf("error parsing ticker %s: %w", symbol, err)
	}

	return &ticker, nil
}
