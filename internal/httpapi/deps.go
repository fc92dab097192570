package httpapi

import (
	"sync/atomic"
	"time"

	"recruit-engine/internal/config"
	"recruit-engine/internal/events"
	"recruit-engine/internal/store"
)

type Deps struct {
	Store *store.DB
	Hub   *events.Hub

	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// CSRFKey signs anti-forgery tokens; 32 bytes.
	CSRFKey []byte
	Views   *ViewRegistry
	Limiter *ClientLimiter

	// Now is the clock used for relative ages and days left; nil means time.Now.
	Now func() time.Time
}

func (d Deps) clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}
