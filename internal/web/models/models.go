package models

// LoginRequest is the /auth/login body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the /auth/register body.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

// ThresholdRequest replaces the global default threshold.
type ThresholdRequest struct {
	TempMin *float64 `json:"tempMin" binding:"required"`
	TempMax *float64 `json:"tempMax" binding:"required"`
	OxyMin  *float64 `json:"oxyMin" binding:"required"`
	OxyMax  *float64 `json:"oxyMax" binding:"required"`
}

// DeviceUpdateRequest updates a registry entry's mutable fields.
type DeviceUpdateRequest struct {
	Name            *string  `json:"name"`
	Region          *string  `json:"region"`
	AutoOxygenation *bool    `json:"auto_oxygenation"`
	ConfigPriority  *string  `json:"config_priority"`
	TempMin         *float64 `json:"temp_min"`
	TempMax         *float64 `json:"temp_max"`
	OxyMin          *float64 `json:"oxy_min"`
	OxyMax          *float64 `json:"oxy_max"`
}

// RegionRequest creates or replaces a region override config.
type RegionRequest struct {
	Region  string   `json:"region" binding:"required"`
	TempMin *float64 `json:"temp_min"`
	TempMax *float64 `json:"temp_max"`
	OxyMin  *float64 `json:"oxy_min"`
	OxyMax  *float64 `json:"oxy_max"`
}

// ManualControlRequest issues an operator command to a device.
type ManualControlRequest struct {
	DeviceID     string `json:"device_id" binding:"required"`
	DeviceStatus string `json:"device_status" binding:"required"`
	WorkStatus   string `json:"work_status"`
	Second       int64  `json:"second"`
}
