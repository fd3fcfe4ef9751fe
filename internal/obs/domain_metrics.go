package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PaymentOptionsTotal counts paymentOptions hook outcomes (offered, ineligible, inactive, invalid, error).
	PaymentOptionsTotal *prometheus.CounterVec
	// PaymentReturnTotal counts displayPaymentReturn hook outcomes (shown, hidden, invalid, error).
	PaymentReturnTotal *prometheus.CounterVec
	// SettingsSubmitTotal counts admin settings submissions (saved, invalid, error).
	SettingsSubmitTotal *prometheus.CounterVec
	// ModuleLifecycleTotal counts install and uninstall attempts.
	ModuleLifecycleTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers the module's Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PaymentOptionsTotal = newCounterVec(reg, namespace, "payment_options_total",
			"Count of payment option requests by outcome.", "result")
		PaymentReturnTotal = newCounterVec(reg, namespace, "payment_return_total",
			"Count of payment return renders by outcome.", "result")
		SettingsSubmitTotal = newCounterVec(reg, namespace, "settings_submit_total",
			"Count of admin settings submissions by outcome.", "result")
		ModuleLifecycleTotal = newCounterVec(reg, namespace, "module_lifecycle_total",
			"Count of module install and uninstall attempts.", "action", "result")
	})
}

func newCounterVec(reg prometheus.Registerer, namespace, name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
	mustRegisterCollector(reg, vec, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			vec = v
		}
	})
	return vec
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
