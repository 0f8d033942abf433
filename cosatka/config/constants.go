package config

import "time"

// Embed colors
const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	BackgroundColor   = 0x2B2D31
	EmbedDefaultColor = 0x2B2D31
)

// Paging
const (
	ShopItemsPerPage = 5
	TopUsersPerPage  = 10
	MaxTopUsers      = 50
	MaxAutocomplete  = 25
)

// Timeouts
const (
	DefaultQueryTimeout     = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	SlowCommandThreshold    = 2 * time.Second
	PresenceTimeout         = 5 * time.Second
	ShutdownTimeout         = 10 * time.Second
)
