package monitoring

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the tracking loop's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Polls        *prometheus.CounterVec
	SerialWrites prometheus.Counter
	SerialAcks   prometheus.Counter
	Azimuth      prometheus.Gauge
	Altitude     prometheus.Gauge
}

// NewMetrics registers the tracker metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	polls, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_polls_total",
		Help: "Stellarium object queries, labeled by result.",
	}, []string{"result"}), "tracker_polls_total")
	if err != nil {
		return nil, err
	}
	writes, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_serial_writes_total",
		Help: "Coordinate payloads written to the serial port.",
	}), "tracker_serial_writes_total")
	if err != nil {
		return nil, err
	}
	acks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_serial_acks_total",
		Help: "Acknowledgements received from the mount controller.",
	}), "tracker_serial_acks_total")
	if err != nil {
		return nil, err
	}
	azimuth, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracker_azimuth_degrees",
		Help: "Azimuth of the last payload sent to the serial port.",
	}), "tracker_azimuth_degrees")
	if err != nil {
		return nil, err
	}
	altitude, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracker_altitude_degrees",
		Help: "Altitude of the last payload sent to the serial port.",
	}), "tracker_altitude_degrees")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:     gatherer,
		Polls:        polls,
		SerialWrites: writes,
		SerialAcks:   acks,
		Azimuth:      azimuth,
		Altitude:     altitude,
	}, nil
}

// ObservePoll counts one query with the given result label.
func (m *Metrics) ObservePoll(result string) {
	if m == nil {
		return
	}
	m.Polls.WithLabelValues(result).Inc()
}

// ObserveWrite counts a payload write and records the coordinates sent.
func (m *Metrics) ObserveWrite(azimuth, altitude float64) {
	if m == nil {
		return
	}
	m.SerialWrites.Inc()
	m.Azimuth.Set(azimuth)
	m.Altitude.Set(altitude)
}

// ObserveAck counts an acknowledgement from the device.
func (m *Metrics) ObserveAck() {
	if m == nil {
		return
	}
	m.SerialAcks.Inc()
}

// Handler exposes the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// register adds c to reg, reusing an existing collector of the same type when
// one is already registered under that name.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var zero T
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return zero, err
	}
	return c, nil
}
