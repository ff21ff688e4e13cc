package service

import (
	"context"
	"strconv"

	"github.com/Skotchmaster/stockroom/internal/logging"
)

const DarkModeKey = "darkMode"

type Preferences struct {
	KV KV
}

// DarkMode is false when the slot is missing or unreadable.
func (p *Preferences) DarkMode(ctx context.Context) bool {
	raw, ok, err := p.KV.Get(ctx, DarkModeKey)
	if err != nil {
		logging.FromContext(ctx).Warn("read_preference_failed", "svc", "preferences.dark_mode", "error", err)
		return false
	}
	if !ok {
		return false
	}
	dark, err := strconv.ParseBool(raw)
	return err == nil && dark
}

func (p *Preferences) SetDarkMode(ctx context.Context, dark bool) error {
	return p.KV.Set(ctx, DarkModeKey, strconv.FormatBool(dark))
}
