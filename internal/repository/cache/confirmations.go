package cache

import (
	"fmt"

	"booking-flow/internal/models"
)

// ConfirmationCache maps idempotency keys to the confirmation issued for them.
type ConfirmationCache struct {
	cch KV
}

func NewConfirmationCache(cch KV) *ConfirmationCache {
	return &ConfirmationCache{cch: cch}
}

func (c *ConfirmationCache) PutConfirmation(conf models.Confirmation) {
	c.cch.Put(conf.IdempotencyKey, conf)
}

func (c *ConfirmationCache) GetConfirmation(key string) (models.Confirmation, error) {
	v, ok := c.cch.Get(key)
	if !ok {
		return models.Confirmation{}, fmt.Errorf("confirmation %s: %w", key, ErrNotFound)
	}
	conf, ok := v.(models.Confirmation)
	if !ok {
		return models.Confirmation{}, fmt.Errorf("confirmation %s: %w", key, ErrWrongType)
	}
	return conf, nil
}

func (c *ConfirmationCache) GetAllConfirmations() ([]models.Confirmation, error) {
	snap := c.cch.Snapshot()
	out := make([]models.Confirmation, 0, len(snap))
	for key, v := range snap {
		conf, ok := v.(models.Confirmation)
		if !ok {
			return nil, fmt.Errorf("confirmation %s: %w", key, ErrWrongType)
		}
		out = append(out, conf)
	}
	return out, nil
}
