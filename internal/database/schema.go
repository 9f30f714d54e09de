package database

// EnergySchema is owned by the energy service.
const EnergySchema = `
CREATE TABLE IF NOT EXISTS pumps (
    id BIGSERIAL PRIMARY KEY,
    reference TEXT NOT NULL UNIQUE,
    power_kw DOUBLE PRECISION NOT NULL CHECK (power_kw > 0),
    status TEXT NOT NULL,             -- ACTIVE, INACTIVE, MAINTENANCE
    commissioned_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pumps_status ON pumps(status);

CREATE TABLE IF NOT EXISTS consumption_readings (
    id BIGSERIAL PRIMARY KEY,
    pump_id BIGINT NOT NULL REFERENCES pumps(id),
    energy_used_kwh DOUBLE PRECISION NOT NULL,
    duration_hours DOUBLE PRECISION NOT NULL,
    measured_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_consumption_pump_time ON consumption_readings(pump_id, measured_at);
`

// WaterSchema is owned by the water service. pump_id references a pump in the
// energy service and is not a foreign key.
const WaterSchema = `
CREATE TABLE IF NOT EXISTS flow_readings (
    id BIGSERIAL PRIMARY KEY,
    pump_id BIGINT NOT NULL,
    flow DOUBLE PRECISION NOT NULL,
    unit TEXT NOT NULL,               -- e.g. m3/h
    measured_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_flow_pump_time ON flow_readings(pump_id, measured_at);

CREATE TABLE IF NOT EXISTS reservoirs (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    total_capacity DOUBLE PRECISION NOT NULL CHECK (total_capacity > 0),
    current_volume DOUBLE PRECISION NOT NULL CHECK (current_volume >= 0 AND current_volume <= total_capacity),
    location TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reservoirs_location ON reservoirs(location);
`
