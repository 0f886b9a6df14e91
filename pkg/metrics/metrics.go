package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesHandled counts inbound chat messages by the route they took
	MessagesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbot_messages_handled_total",
			Help: "Total number of inbound chat messages handled",
		},
		[]string{"route"},
	)

	// PromptsRegistered counts pending prompts registered per kind
	PromptsRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbot_prompts_registered_total",
			Help: "Total number of pending prompts registered",
		},
		[]string{"kind"},
	)

	// WalletsCreated counts wallets generated, by whether they were persisted
	WalletsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbot_wallets_created_total",
			Help: "Total number of wallets generated",
		},
		[]string{"persisted"},
	)

	// WalletsDeleted counts delete requests, by whether a record matched
	WalletsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbot_wallet_deletes_total",
			Help: "Total number of wallet delete requests",
		},
		[]string{"matched"},
	)

	// RPCCallsTotal tracks balance RPC calls per chain and outcome
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbot_rpc_calls_total",
			Help: "Total number of RPC calls",
		},
		[]string{"chain", "method", "result"},
	)

	// RPCLatency tracks RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "walletbot_rpc_latency_seconds",
			Help:    "RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain", "method"},
	)

	// MessagesSent counts outbound chat messages by result
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbot_messages_sent_total",
			Help: "Total number of outbound chat messages",
		},
		[]string{"result"},
	)
)
