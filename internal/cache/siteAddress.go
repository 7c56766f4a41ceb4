package cache

import (
	"time"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/godwinide/teslastockinvestment/internal/repository"
)

// Receiving addresses change rarely (an admin edit) but are read on every
// deposit request, so they sit in Redis in front of the sites table.
const siteAddressTTL = 10 * time.Minute

type SiteAddressCache struct {
	cache *Cache
	sites repository.SiteRepository
}

func NewSiteAddressCache(cache *Cache, sites repository.SiteRepository) *SiteAddressCache {
	return &SiteAddressCache{
		cache: cache,
		sites: sites,
	}
}

// Resolve maps a payment method to the site's receiving address. A method
// the platform doesn't support, or one without a configured address, is
// reported as not found rather than an error.
func (c *SiteAddressCache) Resolve(method string) (string, bool, error) {
	switch method {
	case models.PaymentMethodBitcoin, models.PaymentMethodEthereum, models.PaymentMethodTether:
	default:
		return "", false, nil
	}

	key := "site:address:" + method

	if c.cache != nil {
		if address, err := c.cache.Get(key); err == nil && address != "" {
			return address, true, nil
		}
	}

	site, found, err := c.sites.Get()
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}

	var address string
	switch method {
	case models.PaymentMethodBitcoin:
		address = site.BitcoinAddress.String
	case models.PaymentMethodEthereum:
		address = site.EthereumAddress.String
	case models.PaymentMethodTether:
		address = site.TetherAddress.String
	}

	if address == "" {
		return "", false, nil
	}

	if c.cache != nil {
		// best effort, the next request falls through to the table anyway
		_ = c.cache.Set(key, address, siteAddressTTL)
	}

	return address, true, nil
}
