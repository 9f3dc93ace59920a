package types

type HeartbeatRequest struct {
	HardwareID      string `json:"hardware_id"`
	FirmwareVersion string `json:"firmware_version,omitempty"`
	UptimeSeconds   uint64 `json:"uptime_s,omitempty"`
	RSSIDbm         *int   `json:"rssi_dbm,omitempty"`
	IP              string `json:"ip,omitempty"`
	FreeHeapBytes   uint64 `json:"free_heap_bytes,omitempty"`
	Sequence        uint64 `json:"sequence,omitempty"`
}

type HeartbeatResponse struct {
	OK         bool   `json:"ok"`
	Known      bool   `json:"known"`
	HardwareID string `json:"hardware_id"`
	ServerTime string `json:"server_time"`
}
