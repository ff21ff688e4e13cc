// Package seed loads the static credential table and the initial product list.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Skotchmaster/stockroom/internal/models"
)

//go:embed seed.toml
var defaultSeed string

type Data struct {
	Credentials []models.Credential `toml:"credentials"`
	Products    []models.Product    `toml:"products"`
}

// Load reads path, or the embedded defaults when path is empty.
func Load(path string) (*Data, error) {
	var d Data
	if path == "" {
		if _, err := toml.Decode(defaultSeed, &d); err != nil {
			return nil, fmt.Errorf("decode embedded seed: %w", err)
		}
	} else {
		if _, err := toml.DecodeFile(path, &d); err != nil {
			return nil, fmt.Errorf("decode seed %s: %w", path, err)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func Parse(doc string) (*Data, error) {
	var d Data
	if _, err := toml.Decode(doc, &d); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Data) Validate() error {
	var errs []error

	emails := make(map[string]struct{}, len(d.Credentials))
	for i, c := range d.Credentials {
		if strings.TrimSpace(c.Email) == "" || c.Password == "" {
			errs = append(errs, fmt.Errorf("credentials[%d]: email and password are required", i))
		}
		if c.Role == models.RoleNone {
			errs = append(errs, fmt.Errorf("credentials[%d]: role is required", i))
		}
		if _, dup := emails[c.Email]; dup {
			errs = append(errs, fmt.Errorf("credentials[%d]: duplicate email %q", i, c.Email))
		}
		emails[c.Email] = struct{}{}
	}

	ids := make(map[int]struct{}, len(d.Products))
	for i, p := range d.Products {
		if p.ID <= 0 || p.ID == math.MaxInt {
			errs = append(errs, fmt.Errorf("products[%d]: id must be positive and below %d", i, math.MaxInt))
		}
		if _, dup := ids[p.ID]; dup {
			errs = append(errs, fmt.Errorf("products[%d]: duplicate id %d", i, p.ID))
		}
		ids[p.ID] = struct{}{}
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("products[%d]: name is required", i))
		}
		if p.Quantity < 0 {
			errs = append(errs, fmt.Errorf("products[%d]: quantity must be >= 0", i))
		}
		if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			errs = append(errs, fmt.Errorf("products[%d]: price must be a non-negative number", i))
		}
	}

	return errors.Join(errs...)
}
