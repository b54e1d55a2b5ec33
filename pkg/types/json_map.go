package types

// JSONMap stores free-form string pairs (product specifications) as jsonb.
type JSONMap map[string]string
