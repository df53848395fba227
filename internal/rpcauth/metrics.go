package rpcauth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	sideRequest  = "request"
	sideResponse = "response"
)

var (
	signedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpcauth_signed_messages_total",
			Help: "Number of RPC messages signed, by side.",
		},
		[]string{"side"},
	)

	verifiedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpcauth_verified_messages_total",
			Help: "Number of RPC messages whose signature verified, by side.",
		},
		[]string{"side"},
	)

	verificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpcauth_verification_failures_total",
			Help: "Number of RPC messages rejected, by side and reason.",
		},
		[]string{"side", "reason"},
	)
)

func recordFailure(side string, err error) {
	verificationFailures.WithLabelValues(side, failureReason(err)).Inc()
}
