package db

import (
	"context"
	"time"

	"aquactl/internal/models"
)

const deviceColumns = "device_id, name, region, auto_oxygenation, config_priority, temp_min, temp_max, oxy_min, oxy_max, last_seen"

func scanDevice(row interface{ Scan(...any) error }) (*models.Device, error) {
	var d models.Device
	err := row.Scan(&d.DeviceID, &d.Name, &d.Region, &d.AutoOxygenation, &d.ConfigPriority,
		&d.TempMin, &d.TempMax, &d.OxyMin, &d.OxyMax, &d.LastSeen)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDevice fetches a registry entry by device id.
func (d *DB) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	row := d.pool.QueryRow(ctx, "SELECT "+deviceColumns+" FROM devices WHERE device_id = $1", deviceID)
	return scanDevice(row)
}

// InsertDevice creates a bare registry entry with no region, overrides or priority.
func (d *DB) InsertDevice(ctx context.Context, deviceID string) error {
	_, err := d.pool.Exec(ctx, "INSERT INTO devices (device_id) VALUES ($1)", deviceID)
	return err
}

// UpdateDeviceLastSeen stamps the last report time for a device.
func (d *DB) UpdateDeviceLastSeen(ctx context.Context, deviceID string, at time.Time) error {
	_, err := d.pool.Exec(ctx, "UPDATE devices SET last_seen = $1 WHERE device_id = $2", at, deviceID)
	return err
}

// ListDevices fetches registry entries, optionally filtered by region or a
// search term matching device id or name.
func (d *DB) ListDevices(ctx context.Context, region, search string, limit, offset int) ([]models.Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE ($1 = '' OR region = $1) AND ($2 = '' OR device_id ILIKE '%'||$2||'%' OR name ILIKE '%'||$2||'%') ORDER BY device_id LIMIT $3 OFFSET $4"
	rows, err := d.pool.Query(ctx, query, region, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		dev, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *dev)
	}
	return devices, rows.Err()
}

// UpdateDevice replaces the mutable registry fields of a device.
func (d *DB) UpdateDevice(ctx context.Context, dev *models.Device) error {
	_, err := d.pool.Exec(ctx,
		"UPDATE devices SET name = $1, region = $2, auto_oxygenation = $3, config_priority = $4, temp_min = $5, temp_max = $6, oxy_min = $7, oxy_max = $8 WHERE device_id = $9",
		dev.Name, dev.Region, dev.AutoOxygenation, dev.ConfigPriority,
		dev.TempMin, dev.TempMax, dev.OxyMin, dev.OxyMax, dev.DeviceID)
	return err
}

// DeleteDevice removes a device from the registry.
func (d *DB) DeleteDevice(ctx context.Context, deviceID string) error {
	_, err := d.pool.Exec(ctx, "DELETE FROM devices WHERE device_id = $1", deviceID)
	return err
}

// DistinctRegions lists region codes present in the registry.
func (d *DB) DistinctRegions(ctx context.Context) ([]string, error) {
	rows, err := d.pool.Query(ctx, "SELECT DISTINCT region FROM devices WHERE region IS NOT NULL ORDER BY region")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

// GetRegionThreshold fetches the override bounds for a region code.
func (d *DB) GetRegionThreshold(ctx context.Context, region string) (*models.RegionThreshold, error) {
	var r models.RegionThreshold
	err := d.pool.QueryRow(ctx,
		"SELECT region, temp_min, temp_max, oxy_min, oxy_max FROM region_config WHERE region = $1", region).
		Scan(&r.Region, &r.TempMin, &r.TempMax, &r.OxyMin, &r.OxyMax)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRegionThresholds fetches all region override configs.
func (d *DB) ListRegionThresholds(ctx context.Context) ([]models.RegionThreshold, error) {
	rows, err := d.pool.Query(ctx, "SELECT region, temp_min, temp_max, oxy_min, oxy_max FROM region_config ORDER BY region")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []models.RegionThreshold
	for rows.Next() {
		var r models.RegionThreshold
		if err := rows.Scan(&r.Region, &r.TempMin, &r.TempMax, &r.OxyMin, &r.OxyMax); err != nil {
			return nil, err
		}
		configs = append(configs, r)
	}
	return configs, rows.Err()
}

// UpsertRegionThreshold creates or replaces a region override config.
func (d *DB) UpsertRegionThreshold(ctx context.Context, r *models.RegionThreshold) error {
	_, err := d.pool.Exec(ctx,
		"INSERT INTO region_config (region, temp_min, temp_max, oxy_min, oxy_max) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (region) DO UPDATE SET temp_min = $2, temp_max = $3, oxy_min = $4, oxy_max = $5",
		r.Region, r.TempMin, r.TempMax, r.OxyMin, r.OxyMax)
	return err
}

// DeleteRegionThreshold removes a region override config.
func (d *DB) DeleteRegionThreshold(ctx context.Context, region string) error {
	_, err := d.pool.Exec(ctx, "DELETE FROM region_config WHERE region = $1", region)
	return err
}

// InsertSensorDataLog appends a telemetry audit row and returns its id.
func (d *DB) InsertSensorDataLog(ctx context.Context, l *models.SensorDataLog) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx,
		"INSERT INTO sensor_data_log (device_id, temperature, oxygen_concentration, raw_data, received_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		l.DeviceID, l.Temperature, l.OxygenConcentration, l.RawData, l.ReceivedAt).Scan(&id)
	return id, err
}

// LatestSensorData fetches the most recent telemetry row for a device.
func (d *DB) LatestSensorData(ctx context.Context, deviceID string) (*models.SensorDataLog, error) {
	var l models.SensorDataLog
	err := d.pool.QueryRow(ctx,
		"SELECT id, device_id, temperature, oxygen_concentration, raw_data, received_at FROM sensor_data_log WHERE device_id = $1 ORDER BY received_at DESC LIMIT 1",
		deviceID).Scan(&l.ID, &l.DeviceID, &l.Temperature, &l.OxygenConcentration, &l.RawData, &l.ReceivedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SensorDataHistory fetches telemetry rows in a time window, newest first.
func (d *DB) SensorDataHistory(ctx context.Context, deviceID string, from, to time.Time, limit, offset int) ([]models.SensorDataLog, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT id, device_id, temperature, oxygen_concentration, raw_data, received_at FROM sensor_data_log WHERE device_id = $1 AND received_at BETWEEN $2 AND $3 ORDER BY received_at DESC LIMIT $4 OFFSET $5",
		deviceID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.SensorDataLog
	for rows.Next() {
		var l models.SensorDataLog
		if err := rows.Scan(&l.ID, &l.DeviceID, &l.Temperature, &l.OxygenConcentration, &l.RawData, &l.ReceivedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// SensorDataSeries fetches telemetry rows in a time window in ascending
// order, for chart drawing.
func (d *DB) SensorDataSeries(ctx context.Context, deviceID string, from, to time.Time) ([]models.SensorDataLog, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT id, device_id, temperature, oxygen_concentration, raw_data, received_at FROM sensor_data_log WHERE device_id = $1 AND received_at BETWEEN $2 AND $3 ORDER BY received_at ASC",
		deviceID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.SensorDataLog
	for rows.Next() {
		var l models.SensorDataLog
		if err := rows.Scan(&l.ID, &l.DeviceID, &l.Temperature, &l.OxygenConcentration, &l.RawData, &l.ReceivedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// DistinctDeviceIDs lists device ids seen in the telemetry log.
func (d *DB) DistinctDeviceIDs(ctx context.Context) ([]string, error) {
	rows, err := d.pool.Query(ctx, "SELECT DISTINCT device_id FROM sensor_data_log ORDER BY device_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// InsertControlLog appends a control audit row.
func (d *DB) InsertControlLog(ctx context.Context, l *models.ControlLogEntry) error {
	_, err := d.pool.Exec(ctx,
		"INSERT INTO device_control_log (device_id, device_status, triggering_data_id, raw_command, sent_at) VALUES ($1, $2, $3, $4, $5)",
		l.DeviceID, l.DeviceStatus, l.TriggeringDataID, l.RawCommand, l.SentAt)
	return err
}

// ControlLogHistory fetches recent control rows for a device, newest first.
func (d *DB) ControlLogHistory(ctx context.Context, deviceID string, limit int) ([]models.ControlLogEntry, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT id, device_id, device_status, triggering_data_id, raw_command, sent_at FROM device_control_log WHERE device_id = $1 ORDER BY sent_at DESC LIMIT $2",
		deviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ControlLogEntry
	for rows.Next() {
		var l models.ControlLogEntry
		if err := rows.Scan(&l.ID, &l.DeviceID, &l.DeviceStatus, &l.TriggeringDataID, &l.RawCommand, &l.SentAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// PruneSensorDataBefore deletes telemetry rows older than the cutoff and
// returns the number of rows removed.
func (d *DB) PruneSensorDataBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := d.pool.Exec(ctx, "DELETE FROM sensor_data_log WHERE received_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
