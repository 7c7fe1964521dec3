package auth

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "grant"

// Metrics counts codes, tokens, rejections and expiries. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registerer        prometheus.Registerer
	codesIssued       prometheus.Counter
	codesRejected     *prometheus.CounterVec
	tokensIssued      prometheus.Counter
	redemptionsFailed prometheus.Counter
	grantsExpired     prometheus.Counter
}

// NewMetrics registers the authorization flow collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		registerer: reg,
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "codes_issued_total",
			Help:      "Authorization codes issued.",
		}),
		codesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "codes_rejected_total",
			Help:      "Authorization code requests rejected before issuance.",
		}, []string{"reason"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tokens_issued_total",
			Help:      "Access tokens issued in exchange for a grant.",
		}),
		redemptionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "redemptions_failed_total",
			Help:      "Token requests that found no live grant.",
		}),
		grantsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "expired_total",
			Help:      "Grants dropped because their TTL elapsed.",
		}),
	}

	for _, c := range []prometheus.Collector{m.codesIssued, m.codesRejected, m.tokensIssued, m.redemptionsFailed, m.grantsExpired} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RegisterPendingGauge exposes the pending grant count of src.
func (m *Metrics) RegisterPendingGauge(src interface{ Len() int }) error {
	if m == nil || src == nil {
		return nil
	}
	return m.registerer.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "pending",
		Help:      "Grants awaiting redemption.",
	}, func() float64 {
		return float64(src.Len())
	}))
}

// GrantExpired matches the grants.WithExpiryHook signature.
func (m *Metrics) GrantExpired(_ string) {
	if m == nil {
		return
	}
	m.grantsExpired.Inc()
}

func (m *Metrics) codeIssued() {
	if m == nil {
		return
	}
	m.codesIssued.Inc()
}

func (m *Metrics) codeRejected(err error) {
	if m == nil {
		return
	}
	reason := "other"
	switch {
	case stderrors.Is(err, ErrInvalidClientID):
		reason = "invalid_client_id"
	case stderrors.Is(err, ErrInvalidClientSecret):
		reason = "invalid_client_secret"
	}
	m.codesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) tokenIssued() {
	if m == nil {
		return
	}
	m.tokensIssued.Inc()
}

func (m *Metrics) redemptionFailed() {
	if m == nil {
		return
	}
	m.redemptionsFailed.Inc()
}
