package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/cache"
	"ops-portal/internal/repository"
)

const (
	ratesCacheKey = "rates:daily"
	ratesCacheTTL = time.Hour
)

// RatesSvc is an implementation of the service.RatesService interface. It
// reads a daily XML feed where every rate is quoted against the feed's own
// denomination currency, so cross rates work for any pair the feed carries.
type RatesSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
	cache  *cache.Cache
	client *http.Client
}

// NewRatesService creates a new RatesSvc
func NewRatesService(deps Dependencies) *RatesSvc {
	return &RatesSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
		cache:  deps.Cache,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetRates returns per-unit rates keyed by currency code, quoted in the feed's
// denomination currency. The feed currency itself maps to 1.
func (s *RatesSvc) GetRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	return cache.GetOrSet(ctx, s.cache, ratesCacheKey, ratesCacheTTL, func() (map[string]decimal.Decimal, error) {
		return s.fetchRates(ctx)
	})
}

// ToBase converts an amount into the portal's base currency. Amounts already
// in the base currency pass through untouched.
func (s *RatesSvc) ToBase(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	base := s.config.Rates.BaseCurrency
	if currency == base {
		return amount, nil
	}

	rates, err := s.GetRates(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	from, ok := rates[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for currency %s", currency)
	}
	to, ok := rates[base]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for base currency %s", base)
	}

	return amount.Mul(from).DivRound(to, 2), nil
}

// fetchRates downloads and parses the daily XML feed
func (s *RatesSvc) fetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.Rates.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates feed: %w", err)
	}

	return parseRatesFeed(body)
}

// parseRatesFeed extracts per-unit rates from the ValCurs XML document. Values
// use a decimal comma and a Nominal multiplier, both normalized here.
func parseRatesFeed(body []byte) (map[string]decimal.Decimal, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("failed to parse rates feed: %w", err)
	}

	rates := map[string]decimal.Decimal{
		"RUB": decimal.NewFromInt(1),
	}

	for _, valute := range doc.FindElements("//ValCurs/Valute") {
		codeElem := valute.FindElement("CharCode")
		valueElem := valute.FindElement("Value")
		nominalElem := valute.FindElement("Nominal")
		if codeElem == nil || valueElem == nil {
			continue
		}

		value, err := decimal.NewFromString(strings.Replace(valueElem.Text(), ",", ".", 1))
		if err != nil {
			continue
		}

		nominal := decimal.NewFromInt(1)
		if nominalElem != nil {
			if n, err := decimal.NewFromString(nominalElem.Text()); err == nil && n.IsPositive() {
				nominal = n
			}
		}

		rates[codeElem.Text()] = value.DivRound(nominal, 6)
	}

	if len(rates) <= 1 {
		return nil, fmt.Errorf("rates feed contained no currencies")
	}

	return rates, nil
}
