package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wheelgate_bets_total",
		Help: "The total number of settled bets",
	}, []string{"risk", "outcome"})

	BetRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wheelgate_bet_rejects_total",
		Help: "Bets rejected before commit",
	}, []string{"reason"})

	StakeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wheelgate_stake_total",
		Help: "Sum of settled stakes",
	}, []string{"risk"})

	PayoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wheelgate_payout_total",
		Help: "Sum of settled payouts",
	}, []string{"risk"})

	AutoBetStops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wheelgate_autobet_stops_total",
		Help: "Autobet runs finished, by stop reason",
	}, []string{"reason"})

	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wheelgate_stream_clients",
		Help: "Connected websocket clients",
	})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wheelgate_latency_bucket",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)
