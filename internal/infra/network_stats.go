package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"minecalc/internal/domain"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
)

const (
	initialSubsidySats = 50 * 100_000_000
	halvingInterval    = 210_000
	maxHalvings        = 64
)

// blockchainStats represents the subset of the blockchain.info /stats response we use
type blockchainStats struct {
	MarketPriceUSD   float64 `json:"market_price_usd"`
	Difficulty       float64 `json:"difficulty"`
	MinersRevenueBTC float64 `json:"miners_revenue_btc"`
	NBlocksTotal     int64   `json:"n_blocks_total"`
	NBlocksMined     int64   `json:"n_blocks_mined"`
	HashRate         float64 `json:"hash_rate"`
	Timestamp        float64 `json:"timestamp"` // Unix millis
}

// NetworkStatsClient fetches a fresh NetworkSnapshot from the blockchain.info stats API.
// Nothing is cached between calls.
type NetworkStatsClient struct {
	apiURL         string
	rewardSource   string
	maxTries       uint
	initialBackoff time.Duration
	httpClient     *http.Client
	metrics        *Metrics
}

// NewNetworkStatsClient creates a client from the network section of cfg.
// metrics may be nil.
func NewNetworkStatsClient(cfg *Config, metrics *Metrics) *NetworkStatsClient {
	return &NetworkStatsClient{
		apiURL:         cfg.Network.StatsURL,
		rewardSource:   cfg.Network.BlockRewardSource,
		maxTries:       uint(cfg.Network.MaxRetries),
		initialBackoff: 1 * time.Second,
		httpClient: &http.Client{
			Timeout: cfg.NetworkTimeout(),
		},
		metrics: metrics,
	}
}

// FetchSnapshot queries the stats endpoint, retrying transient failures with
// exponential backoff. Every failure is a *domain.FetchError.
func (c *NetworkStatsClient) FetchSnapshot(ctx context.Context) (domain.NetworkSnapshot, error) {
	start := time.Now()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialBackoff
	policy.MaxInterval = c.initialBackoff * 10

	attempt := 0
	operation := func() (domain.NetworkSnapshot, error) {
		attempt++
		snap, err := c.doFetch(ctx)
		if err != nil && !domain.IsRetriable(err) {
			return snap, backoff.Permanent(err)
		}
		return snap, err
	}
	notify := func(err error, delay time.Duration) {
		slog.Warn("Network stats fetch attempt failed",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay),
			slog.Any("error", err),
		)
	}

	snap, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(notify),
	)
	if err != nil {
		var fe *domain.FetchError
		if !errors.As(err, &fe) {
			err = domain.NewFatalFetchError("request", err)
		}
	}

	if c.metrics != nil {
		c.metrics.RecordFetch(time.Since(start), err)
	}
	if err != nil {
		return domain.NetworkSnapshot{}, err
	}
	return snap, nil
}

func (c *NetworkStatsClient) doFetch(ctx context.Context) (domain.NetworkSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return domain.NetworkSnapshot{}, domain.NewFatalFetchError("request", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.NetworkSnapshot{}, domain.NewFatalFetchError("request", err)
		}
		return domain.NetworkSnapshot{}, domain.NewFetchError("request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return domain.NetworkSnapshot{}, domain.NewFetchError("status", statusErr)
		}
		return domain.NetworkSnapshot{}, domain.NewFatalFetchError("status", statusErr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NetworkSnapshot{}, domain.NewFetchError("read", err)
	}

	var stats blockchainStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return domain.NetworkSnapshot{}, domain.NewFatalFetchError("decode", err)
	}

	snap, err := c.toSnapshot(stats)
	if err != nil {
		return domain.NetworkSnapshot{}, domain.NewFatalFetchError("validate", err)
	}

	slog.Debug("Network stats fetched",
		slog.Float64("price", snap.PriceUSD),
		slog.Float64("difficulty", snap.Difficulty),
		slog.Float64("block_reward", snap.BlockReward),
	)
	return snap, nil
}

func (c *NetworkStatsClient) toSnapshot(stats blockchainStats) (domain.NetworkSnapshot, error) {
	reward, err := c.blockReward(stats)
	if err != nil {
		return domain.NetworkSnapshot{}, err
	}

	fetchedAt := time.Now().UTC()
	if stats.Timestamp > 0 {
		fetchedAt = time.UnixMilli(int64(stats.Timestamp)).UTC()
	}

	snap := domain.NetworkSnapshot{
		PriceUSD:    stats.MarketPriceUSD,
		Difficulty:  stats.Difficulty,
		BlockReward: reward,
		FetchedAt:   fetchedAt,
	}
	if err := snap.Validate(); err != nil {
		return domain.NetworkSnapshot{}, err
	}
	return snap, nil
}

func (c *NetworkStatsClient) blockReward(stats blockchainStats) (float64, error) {
	switch c.rewardSource {
	case RewardSourceRevenue:
		if stats.NBlocksMined <= 0 {
			return 0, errors.New("n_blocks_mined must be positive")
		}
		avg := decimal.NewFromFloat(stats.MinersRevenueBTC).Div(decimal.NewFromInt(stats.NBlocksMined))
		return avg.InexactFloat64(), nil
	default:
		if stats.NBlocksTotal <= 0 {
			return 0, fmt.Errorf("n_blocks_total must be positive, got %d", stats.NBlocksTotal)
		}
		return BlockSubsidy(stats.NBlocksTotal).InexactFloat64(), nil
	}
}

// BlockSubsidy returns the block subsidy in BTC at the given height:
// 50 BTC halved every 210,000 blocks, computed in satoshis.
func BlockSubsidy(height int64) decimal.Decimal {
	halvings := height / halvingInterval
	if halvings >= maxHalvings {
		return decimal.Zero
	}
	sats := int64(initialSubsidySats) >> uint(halvings)
	return decimal.New(sats, -8)
}
