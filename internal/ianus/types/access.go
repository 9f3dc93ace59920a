package types

// DecisionReason explains a terminal access outcome.
type DecisionReason string

const (
	// ReasonAuthorized — identified user holds an authorization for the
	// room bound to the presenting device.
	ReasonAuthorized DecisionReason = "authorized"

	// ReasonNoMatch — identification ran but no stored template scored
	// above the matcher's threshold.
	ReasonNoMatch DecisionReason = "no_match"

	// ReasonNoPermission — user identified, but not authorized for the
	// room this device guards.
	ReasonNoPermission DecisionReason = "no_permission"

	// ReasonDeviceUnbound — user identified, but the device is not bound
	// to any room, so there is nothing to authorize against.
	ReasonDeviceUnbound DecisionReason = "device_unbound"
)

// Decision is the engine's answer to a single access attempt.
type Decision struct {
	Granted  bool
	Reason   DecisionReason
	Message  string
	UserName *string // display name of the identified user, nil if none
}

// ScanRequest is the boundary's view of one access attempt: a raw capture,
// the finger the scanner claims was presented, and which scanner it is.
type ScanRequest struct {
	HardwareID string `json:"hardware_id"`
	FingerSlot string `json:"finger_slot"`
	Capture    []byte `json:"capture"` // base64 on the wire
}

// ScanResponse is returned to the scanner.
type ScanResponse struct {
	OK         bool    `json:"ok"`
	Granted    bool    `json:"granted"`
	Reason     string  `json:"reason,omitempty"`
	Message    string  `json:"message,omitempty"`
	UserName   *string `json:"user_name,omitempty"`
	HardwareID string  `json:"hardware_id"`
	ServerTime string  `json:"server_time"`
}
