package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.TokenSecret) < 32 {
		return fmt.Errorf("auth.token_secret must be at least 32 characters (got %d)", len(c.Auth.TokenSecret))
	}

	if err := c.Inventory.validate(); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}

	return nil
}

func (i *InventoryConfig) validate() error {
	if i.SearchDefaultLimit <= 0 {
		return fmt.Errorf("search_default_limit must be > 0 (got %d)", i.SearchDefaultLimit)
	}
	if i.SearchMaxLimit < i.SearchDefaultLimit {
		return fmt.Errorf("search_max_limit must be >= search_default_limit (got %d < %d)",
			i.SearchMaxLimit, i.SearchDefaultLimit)
	}
	if i.MaxTreeDepth <= 0 {
		return fmt.Errorf("max_tree_depth must be > 0 (got %d)", i.MaxTreeDepth)
	}
	return nil
}
