package config

import "time"

const (
	// Daily reset
	ResetCutoffHour      = 6 // reference-timezone hour after which the reset may run
	ResetCheckInterval   = 60 * time.Second
	ResetUpdateBatchSize = 200

	// Referral program
	CommissionPercent = 10.0

	// Completion watchdog for callback-style providers
	WatchdogFloor = 15 * time.Second
	WatchdogSlack = 5 * time.Second

	// Telegram limits
	MaxTelegramMessageLen = 4096
)
